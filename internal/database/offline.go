// Moodcart - Grocery Recommendation Fusion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodcart

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/moodcart/internal/models"
)

// OrderFiles locates the raw order history used by the offline tools.
type OrderFiles struct {
	Products    string
	Aisles      string
	Departments string
	Orders      string
	PriorLines  string
	TrainLines  string
}

// topAislesQuery counts order lines per aisle over the prior and train
// sets. Lines are matched to orders of the same eval set, and products
// missing an aisle or department drop out of the count.
const topAislesQuery = `
WITH products AS (
	SELECT p.product_id, a.aisle_id, a.aisle
	FROM read_csv_auto(%[1]s, header = true) p
	JOIN read_csv_auto(%[2]s, header = true) a ON a.aisle_id = p.aisle_id
	JOIN read_csv_auto(%[3]s, header = true) d ON d.department_id = p.department_id
),
orders AS (
	SELECT order_id, eval_set FROM read_csv_auto(%[4]s, header = true)
),
lines AS (
	SELECT op.product_id
	FROM read_csv_auto(%[5]s, header = true) op
	JOIN orders o ON o.order_id = op.order_id AND o.eval_set = 'prior'
	UNION ALL
	SELECT op.product_id
	FROM read_csv_auto(%[6]s, header = true) op
	JOIN orders o ON o.order_id = op.order_id AND o.eval_set = 'train'
)
SELECT pr.aisle_id::BIGINT AS aisle_id, pr.aisle::VARCHAR AS aisle, COUNT(*)::BIGINT AS total_purchases
FROM lines l
JOIN products pr ON pr.product_id = l.product_id
GROUP BY pr.aisle_id, pr.aisle
ORDER BY total_purchases DESC, pr.aisle_id
LIMIT %[7]d`

func (f *OrderFiles) topAisles(limit int) string {
	return fmt.Sprintf(topAislesQuery,
		sqlString(f.Products), sqlString(f.Aisles), sqlString(f.Departments),
		sqlString(f.Orders), sqlString(f.PriorLines), sqlString(f.TrainLines), limit)
}

// TopAisles returns the limit aisles with the most purchased order lines.
func (db *DB) TopAisles(ctx context.Context, files *OrderFiles, limit int) ([]models.AisleTotal, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	return queryRows(ctx, db, files.topAisles(limit), func(rows *sql.Rows) (models.AisleTotal, error) {
		var id, total int64
		var name string
		if err := rows.Scan(&id, &name, &total); err != nil {
			return models.AisleTotal{}, err
		}
		return models.AisleTotal{Aisle: models.Aisle{ID: int(id), Name: name}, TotalPurchases: int(total)}, nil
	})
}

// ExportTopAisles writes TopAisles to a CSV file with a header row.
func (db *DB) ExportTopAisles(ctx context.Context, files *OrderFiles, limit int, out string) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}
	query := fmt.Sprintf("COPY (%s) TO %s (HEADER, DELIMITER ',')", files.topAisles(limit), sqlString(out))
	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("export top aisles: %w", err)
	}
	return nil
}

// ProductDepartment is a product joined with its department name.
type ProductDepartment struct {
	ProductID    int
	ProductName  string
	AisleID      int
	DepartmentID int
	Department   string
}

// ProductsWithDepartments reads products joined to departments, in
// product file order.
func (db *DB) ProductsWithDepartments(ctx context.Context, products, departments string) ([]ProductDepartment, error) {
	query := fmt.Sprintf(`
		SELECT p.product_id::BIGINT, p.product_name::VARCHAR, p.aisle_id::BIGINT,
		       p.department_id::BIGINT, d.department::VARCHAR
		FROM (SELECT *, row_number() OVER () AS rn FROM read_csv_auto(%s, header = true)) p
		JOIN read_csv_auto(%s, header = true) d ON d.department_id = p.department_id
		ORDER BY p.rn`, sqlString(products), sqlString(departments))

	return queryRows(ctx, db, query, func(rows *sql.Rows) (ProductDepartment, error) {
		var id, aisle, dept int64
		var name, deptName string
		if err := rows.Scan(&id, &name, &aisle, &dept, &deptName); err != nil {
			return ProductDepartment{}, err
		}
		return ProductDepartment{
			ProductID:    int(id),
			ProductName:  name,
			AisleID:      int(aisle),
			DepartmentID: int(dept),
			Department:   deptName,
		}, nil
	})
}

// ExpirationAssignment is a product with its assigned expiration date.
type ExpirationAssignment struct {
	ProductDepartment
	ExpirationDate time.Time
}

// WriteExpirations stores rows in a temporary table and exports them as
// CSV with the columns the expirations artifact loader reads.
func (db *DB) WriteExpirations(ctx context.Context, rows []ExpirationAssignment, out string) error {
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer closeWithLog(conn, &db.logger, "connection")

	if _, err := conn.ExecContext(ctx, `
		CREATE OR REPLACE TEMP TABLE products_with_expiration (
			product_id BIGINT,
			product_name VARCHAR,
			aisle_id BIGINT,
			department_id BIGINT,
			department VARCHAR,
			expiration_date DATE
		)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO products_with_expiration VALUES (?, ?, ?, ?, ?, CAST(? AS DATE))`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	for i := range rows {
		r := &rows[i]
		if _, err := stmt.ExecContext(ctx, r.ProductID, r.ProductName, r.AisleID, r.DepartmentID, r.Department,
			r.ExpirationDate.Format(time.DateOnly)); err != nil {
			closeQuietly(stmt)
			_ = tx.Rollback()
			return fmt.Errorf("insert product %d: %w", r.ProductID, err)
		}
	}
	closeWithLog(stmt, &db.logger, "statement")
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	copyQuery := fmt.Sprintf(`COPY (SELECT * FROM products_with_expiration) TO %s (HEADER, DELIMITER ',', DATEFORMAT '%%Y-%%m-%%d')`, sqlString(out))
	if _, err := conn.ExecContext(ctx, copyQuery); err != nil {
		return fmt.Errorf("export expirations: %w", err)
	}
	return nil
}
