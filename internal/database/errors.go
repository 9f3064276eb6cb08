// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package database

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// ErrArtifactMissing is returned when an artifact file does not exist.
var ErrArtifactMissing = errors.New("artifact file not found")

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, logger *zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && logger != nil {
		logger.Warn().Str("type", resourceType).Err(err).Msg("failed to close resource")
	}
}

// closeQuietly closes a resource on an error path where the close error is
// not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// checkArtifact verifies that path names a readable regular file.
func checkArtifact(name, path string) error {
	if path == "" {
		return &ArtifactError{Name: name, Err: errors.New("path not configured")}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ArtifactError{Name: name, Path: path, Err: ErrArtifactMissing}
		}
		return &ArtifactError{Name: name, Path: path, Err: err}
	}
	if info.IsDir() {
		return &ArtifactError{Name: name, Path: path, Err: errors.New("is a directory")}
	}
	return nil
}

// ArtifactError reports a failure to load one artifact.
type ArtifactError struct {
	Name string
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Name)
	if e.Path != "" {
		b.WriteString(" (")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// sqlString quotes s as a SQL string literal. Table functions such as
// read_csv_auto take their path as a literal, not a bound parameter.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
