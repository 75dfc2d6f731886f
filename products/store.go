package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/almacen-go/apperror"
	"github.com/user/almacen-go/db"
)

// PostgreSQL error codes handled explicitly by the store.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store is the record store behind the product endpoints. Implementations
// return apperror values so handlers can map failures directly to responses.
type Store interface {
	Create(ctx context.Context, req ProductRequest) (*Product, error)
	List(ctx context.Context, params ListParams) ([]Product, error)
	Get(ctx context.Context, id int) (*Product, error)
	Update(ctx context.Context, id int, req ProductRequest) (*Product, error)
	Delete(ctx context.Context, id int) error
}

// PostgresStore implements Store on a pgx connection pool with
// parameterized queries.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const productColumns = `id, name, description, status, entry_date, min_stock_level, supplier_id, tax_id`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.EntryDate.Time,
		&p.MinStockLevel,
		&p.SupplierID,
		&p.TaxID,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// checkReference verifies that a referenced row exists, returning a
// NotFoundError naming the reference when it does not.
func (s *PostgresStore) checkReference(ctx context.Context, table, label string, id int) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	var exists bool
	if err := s.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return db.ClassifyError("failed to check "+label+" reference", err)
	}
	if !exists {
		return apperror.NewNotFoundError(fmt.Sprintf("%s with ID %d does not exist", label, id), nil)
	}
	return nil
}

// classifyWriteError maps constraint violations raised by product writes:
// a duplicate name becomes a conflict, a dangling supplier/tax reference
// becomes not-found (covers races past checkReference), everything else is
// classified by connectivity.
func classifyWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewConflictError("a product with that name already exists", nil)
		case pgForeignKeyViolation:
			if strings.Contains(pgErr.ConstraintName, "supplier") {
				return apperror.NewNotFoundError("referenced supplier does not exist", nil)
			}
			return apperror.NewNotFoundError("referenced tax does not exist", nil)
		}
	}
	return db.ClassifyError(op, err)
}

// Create inserts a new product after verifying its supplier and tax
// references.
func (s *PostgresStore) Create(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := s.checkReference(ctx, "suppliers", "supplier", req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkReference(ctx, "taxes", "tax", req.TaxID); err != nil {
		return nil, err
	}

	query := `INSERT INTO products (name, description, status, entry_date, min_stock_level, supplier_id, tax_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING ` + productColumns

	product, err := scanProduct(s.pool.QueryRow(ctx, query,
		req.Name, req.Description, req.Status, req.EntryDate.Time,
		req.MinStockLevel, req.SupplierID, req.TaxID,
	))
	if err != nil {
		return nil, classifyWriteError("failed to create product", err)
	}
	return product, nil
}

// List returns products matching the given pagination, filter, and search
// parameters, ordered by id. The WHERE clause is built dynamically but every
// value goes through a placeholder.
func (s *PostgresStore) List(ctx context.Context, params ListParams) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []interface{}
	argID := 1

	if params.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, params.Status)
		argID++
	}
	if params.SupplierID > 0 {
		query += fmt.Sprintf(" AND supplier_id = $%d", argID)
		args = append(args, params.SupplierID)
		argID++
	}
	if params.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argID, argID+1)
		pattern := "%" + params.Search + "%"
		args = append(args, pattern, pattern)
		argID += 2
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, params.Limit, params.Skip)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.ClassifyError("failed to list products", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, db.ClassifyError("failed to scan product row", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.ClassifyError("failed to read product rows", err)
	}
	return products, nil
}

// Get retrieves a single product by id.
func (s *PostgresStore) Get(ctx context.Context, id int) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("product not found", nil)
		}
		return nil, db.ClassifyError("failed to get product", err)
	}
	return product, nil
}

// Update replaces all mutable fields of an existing product, applying the
// same reference and uniqueness rules as Create.
func (s *PostgresStore) Update(ctx context.Context, id int, req ProductRequest) (*Product, error) {
	if err := s.checkReference(ctx, "suppliers", "supplier", req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkReference(ctx, "taxes", "tax", req.TaxID); err != nil {
		return nil, err
	}

	query := `UPDATE products
	          SET name = $1, description = $2, status = $3, entry_date = $4,
	              min_stock_level = $5, supplier_id = $6, tax_id = $7
	          WHERE id = $8
	          RETURNING ` + productColumns

	product, err := scanProduct(s.pool.QueryRow(ctx, query,
		req.Name, req.Description, req.Status, req.EntryDate.Time,
		req.MinStockLevel, req.SupplierID, req.TaxID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("product not found", nil)
		}
		return nil, classifyWriteError("failed to update product", err)
	}
	return product, nil
}

// Delete removes a product by id.
func (s *PostgresStore) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyError("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("product not found", nil)
	}
	return nil
}
