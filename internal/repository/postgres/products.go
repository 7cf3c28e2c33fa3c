package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

// ProductRepo is the concession inventory backed by the products table.
type ProductRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ProductRepo) With(db DB) *ProductRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ProductRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *ProductRepo) Product(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "postgres.ProductRepo.Product"

	var p domain.Product
	if err := r.handle().QueryRow(ctx,
		`SELECT id, name, stock, points_price FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Stock, &p.PointsPrice); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &p, nil
}

func (r *ProductRepo) CheckAvailability(ctx context.Context, productID int64, qty int) (bool, error) {
	const op = "postgres.ProductRepo.CheckAvailability"

	var ok bool
	if err := r.handle().QueryRow(ctx,
		`SELECT stock >= $2 FROM products WHERE id = $1`,
		productID, qty,
	).Scan(&ok); err != nil {
		return false, wrapDBErr(op, err)
	}

	return ok, nil
}

// Deduct removes qty units from stock.
//
// Returns:
//   - error: repository.ErrOutOfStock if fewer than qty units remain.
func (r *ProductRepo) Deduct(ctx context.Context, productID int64, qty int) error {
	const op = "postgres.ProductRepo.Deduct"

	tag, err := r.handle().Exec(ctx,
		`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
		productID, qty,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.Product(ctx, productID); err != nil {
			return err
		}
		return wrapDBErr(op, repository.ErrOutOfStock)
	}

	return nil
}

func (r *ProductRepo) Restock(ctx context.Context, productID int64, qty int) error {
	const op = "postgres.ProductRepo.Restock"

	tag, err := r.handle().Exec(ctx,
		`UPDATE products SET stock = stock + $2 WHERE id = $1`,
		productID, qty,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}
