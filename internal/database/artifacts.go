// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tomtom215/moodcart/internal/catalog"
	"github.com/tomtom215/moodcart/internal/metrics"
	"github.com/tomtom215/moodcart/internal/models"
)

// ArtifactPaths locates the artifact files. Relative paths resolve against Dir.
type ArtifactPaths struct {
	Dir               string `koanf:"dir"`
	Products          string `koanf:"products"`
	Aisles            string `koanf:"aisles"`
	Departments       string `koanf:"departments"`
	Moods             string `koanf:"moods"`
	Expirations       string `koanf:"expirations"`
	PurchaseCounts    string `koanf:"purchase_counts"`
	ProductEmbeddings string `koanf:"product_embeddings"`

	// UserEmbeddings is optional; the engine never reads user vectors.
	UserEmbeddings string `koanf:"user_embeddings"`

	UserFactors string `koanf:"user_factors"`
	ItemFactors string `koanf:"item_factors"`
}

// DefaultArtifactPaths returns the standard dataset file names.
func DefaultArtifactPaths() ArtifactPaths {
	return ArtifactPaths{
		Dir:               "./data",
		Products:          "products.csv",
		Aisles:            "aisles.csv",
		Departments:       "departments.csv",
		Moods:             "mood_categorized_aisles.csv",
		Expirations:       "products_with_expiration.csv",
		PurchaseCounts:    "purchase_count_train_df.csv",
		ProductEmbeddings: "product_embeddings.csv",
		UserEmbeddings:    "user_embeddings.csv",
		UserFactors:       "cf_user_factors.csv",
		ItemFactors:       "cf_item_factors.csv",
	}
}

// Resolve returns p joined to Dir unless p is empty or absolute.
func (a *ArtifactPaths) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || a.Dir == "" {
		return p
	}
	return filepath.Join(a.Dir, p)
}

// Artifacts is everything the service loads at startup.
type Artifacts struct {
	Catalog           *catalog.Source
	PurchaseCounts    []models.PurchaseCount
	ProductEmbeddings map[int][]float64
	UserEmbeddings    map[int][]float64
	UserFactors       map[int][]float64
	ItemFactors       map[int][]float64
}

// LoadArtifacts reads every artifact. The first failure aborts the load.
func (db *DB) LoadArtifacts(ctx context.Context, paths *ArtifactPaths) (*Artifacts, error) {
	start := time.Now()
	out := &Artifacts{Catalog: &catalog.Source{}}

	steps := []struct {
		name     string
		path     string
		optional bool
		load     func(path string) error
	}{
		{"products", paths.Products, false, func(p string) (err error) {
			out.Catalog.Products, err = db.LoadProducts(ctx, p)
			return err
		}},
		{"aisles", paths.Aisles, false, func(p string) (err error) {
			out.Catalog.Aisles, err = db.LoadAisles(ctx, p)
			return err
		}},
		{"departments", paths.Departments, false, func(p string) (err error) {
			out.Catalog.Departments, err = db.LoadDepartments(ctx, p)
			return err
		}},
		{"moods", paths.Moods, false, func(p string) (err error) {
			out.Catalog.Moods, err = db.LoadMoods(ctx, p)
			return err
		}},
		{"expirations", paths.Expirations, false, func(p string) (err error) {
			out.Catalog.Expirations, err = db.LoadExpirations(ctx, p)
			return err
		}},
		{"purchase_counts", paths.PurchaseCounts, false, func(p string) (err error) {
			out.PurchaseCounts, err = db.LoadPurchaseCounts(ctx, p)
			return err
		}},
		{"product_embeddings", paths.ProductEmbeddings, false, func(p string) (err error) {
			out.ProductEmbeddings, err = db.LoadVectors(ctx, p)
			return err
		}},
		{"user_embeddings", paths.UserEmbeddings, true, func(p string) (err error) {
			out.UserEmbeddings, err = db.LoadVectors(ctx, p)
			return err
		}},
		{"user_factors", paths.UserFactors, false, func(p string) (err error) {
			out.UserFactors, err = db.LoadVectors(ctx, p)
			return err
		}},
		{"item_factors", paths.ItemFactors, false, func(p string) (err error) {
			out.ItemFactors, err = db.LoadVectors(ctx, p)
			return err
		}},
	}

	for _, step := range steps {
		path := paths.Resolve(step.path)
		if err := checkArtifact(step.name, path); err != nil {
			if step.optional {
				db.logger.Info().Str("artifact", step.name).Str("path", path).Msg("optional artifact skipped")
				continue
			}
			return nil, err
		}

		stepStart := time.Now()
		if err := step.load(path); err != nil {
			return nil, &ArtifactError{Name: step.name, Path: path, Err: err}
		}
		metrics.RecordArtifactLoad(step.name, time.Since(stepStart))
		db.logger.Debug().Str("artifact", step.name).Dur("took", time.Since(stepStart)).Msg("artifact loaded")
	}

	db.logger.Info().
		Int("products", len(out.Catalog.Products)).
		Int("purchase_counts", len(out.PurchaseCounts)).
		Int("product_embeddings", len(out.ProductEmbeddings)).
		Int("user_factors", len(out.UserFactors)).
		Int("item_factors", len(out.ItemFactors)).
		Dur("took", time.Since(start)).
		Msg("artifacts loaded")
	return out, nil
}

// LoadProducts reads the products table.
func (db *DB) LoadProducts(ctx context.Context, path string) ([]catalog.ProductRow, error) {
	query := fmt.Sprintf(`
		SELECT product_id::BIGINT, product_name::VARCHAR, aisle_id::BIGINT, department_id::BIGINT
		FROM read_csv_auto(%s, header = true)`, sqlString(path))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (catalog.ProductRow, error) {
		var id, aisle, dept int64
		var name string
		if err := rows.Scan(&id, &name, &aisle, &dept); err != nil {
			return catalog.ProductRow{}, err
		}
		return catalog.ProductRow{ID: int(id), Name: name, AisleID: int(aisle), DepartmentID: int(dept)}, nil
	})
}

// LoadAisles reads the aisles table.
func (db *DB) LoadAisles(ctx context.Context, path string) ([]models.Aisle, error) {
	query := fmt.Sprintf(`
		SELECT aisle_id::BIGINT, aisle::VARCHAR
		FROM read_csv_auto(%s, header = true)`, sqlString(path))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (models.Aisle, error) {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return models.Aisle{}, err
		}
		return models.Aisle{ID: int(id), Name: name}, nil
	})
}

// LoadDepartments reads the departments table.
func (db *DB) LoadDepartments(ctx context.Context, path string) ([]models.Department, error) {
	query := fmt.Sprintf(`
		SELECT department_id::BIGINT, department::VARCHAR
		FROM read_csv_auto(%s, header = true)`, sqlString(path))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (models.Department, error) {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return models.Department{}, err
		}
		return models.Department{ID: int(id), Name: name}, nil
	})
}

// LoadMoods reads the mood-by-aisle mapping. Blank moods are kept so that
// the catalog build can count them as invalid.
func (db *DB) LoadMoods(ctx context.Context, path string) ([]catalog.MoodRow, error) {
	query := fmt.Sprintf(`
		SELECT aisle_id::BIGINT, COALESCE(mood::VARCHAR, '')
		FROM read_csv_auto(%s, header = true)`, sqlString(path))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (catalog.MoodRow, error) {
		var aisle int64
		var mood string
		if err := rows.Scan(&aisle, &mood); err != nil {
			return catalog.MoodRow{}, err
		}
		return catalog.MoodRow{AisleID: int(aisle), Mood: mood}, nil
	})
}

// LoadExpirations reads product expiration dates. Dates are calendar days
// and become local midnight.
func (db *DB) LoadExpirations(ctx context.Context, path string) ([]catalog.ExpirationRow, error) {
	query := fmt.Sprintf(`
		SELECT product_id::BIGINT, expiration_date::DATE
		FROM read_csv_auto(%s, header = true)
		WHERE expiration_date IS NOT NULL`, sqlString(path))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (catalog.ExpirationRow, error) {
		var id int64
		var date time.Time
		if err := rows.Scan(&id, &date); err != nil {
			return catalog.ExpirationRow{}, err
		}
		local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
		return catalog.ExpirationRow{ProductID: int(id), Date: local}, nil
	})
}

// LoadPurchaseCounts reads the per-user purchase-count table.
func (db *DB) LoadPurchaseCounts(ctx context.Context, path string) ([]models.PurchaseCount, error) {
	query := fmt.Sprintf(`
		SELECT user_id::BIGINT, product_id::BIGINT, purchase_count::BIGINT
		FROM read_csv_auto(%s, header = true)`, sqlString(path))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (models.PurchaseCount, error) {
		var user, product, count int64
		if err := rows.Scan(&user, &product, &count); err != nil {
			return models.PurchaseCount{}, err
		}
		return models.PurchaseCount{UserID: int(user), ProductID: int(product), Count: int(count)}, nil
	})
}

// LoadVectors reads a wide vector table: an id column followed by one
// numeric column per dimension, e.g. "product_id,e0,e1,...".
func (db *DB) LoadVectors(ctx context.Context, path string) (map[int][]float64, error) {
	query := fmt.Sprintf(`SELECT * FROM read_csv_auto(%s, header = true)`, sqlString(path))

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	if len(cols) < 2 {
		return nil, fmt.Errorf("vector table needs an id column and at least one dimension, got %d columns", len(cols))
	}

	out := make(map[int][]float64)
	var id int64
	values := make([]sql.NullFloat64, len(cols)-1)
	dest := make([]any, len(cols))
	dest[0] = &id
	for i := range values {
		dest[i+1] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan vector: %w", err)
		}
		if _, dup := out[int(id)]; dup {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
		vec := make([]float64, len(values))
		for i, v := range values {
			if !v.Valid {
				return nil, fmt.Errorf("id %d has an empty value in column %s", id, cols[i+1])
			}
			vec[i] = v.Float64
		}
		out[int(id)] = vec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vectors: %w", err)
	}
	return out, nil
}

// queryRows runs query and maps every row with scan.
func queryRows[T any](ctx context.Context, db *DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}
