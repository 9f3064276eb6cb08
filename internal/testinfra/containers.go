// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultStartTimeout = 60 * time.Second

// SkipIfNoDocker skips the test when no Docker daemon answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// CleanupContainer terminates container at the end of t, logging failures.
func CleanupContainer(t *testing.T, container testcontainers.Container) {
	t.Helper()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
}

// service describes a single-port container.
type service struct {
	name    string
	image   string
	port    string
	cmd     []string
	readyOn string
	scheme  string
}

// start runs svc and returns its address as scheme://host:port, or host:port
// when scheme is empty.
func start(ctx context.Context, t *testing.T, svc service) string {
	t.Helper()
	SkipIfNoDocker(t)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        svc.image,
			ExposedPorts: []string{svc.port + "/tcp"},
			Cmd:          svc.cmd,
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(svc.port+"/tcp"),
				wait.ForLog(svc.readyOn),
			).WithStartupTimeout(defaultStartTimeout),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("create %s container: %v", svc.name, err)
	}
	CleanupContainer(t, container)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get %s container host: %v", svc.name, err)
	}
	port, err := container.MappedPort(ctx, svc.port)
	if err != nil {
		t.Fatalf("get %s mapped port: %v", svc.name, err)
	}

	addr := fmt.Sprintf("%s:%s", host, port.Port())
	if svc.scheme != "" {
		addr = svc.scheme + "://" + addr
	}
	return addr
}
