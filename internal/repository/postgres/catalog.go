package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/repository"
)

// CatalogRepo reads films, employees and customers. Those tables are owned
// by the directory services; the booking core only writes customer points.
type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *CatalogRepo) Film(ctx context.Context, id int64) (*domain.Film, error) {
	const op = "postgres.CatalogRepo.Film"

	var f domain.Film
	if err := r.handle().QueryRow(ctx,
		`SELECT id, title, duration_min, is_3d, minimum_age FROM films WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.Title, &f.DurationMin, &f.Is3D, &f.MinimumAge); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &f, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	var role string
	if err := row.Scan(&e.ID, &e.CinemaID, &e.Name, &role); err != nil {
		return nil, err
	}
	e.Role = domain.Role(role)
	return &e, nil
}

func (r *CatalogRepo) Employee(ctx context.Context, id int64) (*domain.Employee, error) {
	const op = "postgres.CatalogRepo.Employee"

	e, err := scanEmployee(r.handle().QueryRow(ctx,
		`SELECT id, cinema_id, name, role FROM employees WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return e, nil
}

// LockEmployee serialises cleaning assignments of one employee across rooms.
func (r *CatalogRepo) LockEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	const op = "postgres.CatalogRepo.LockEmployee"

	e, err := scanEmployee(r.handle().QueryRow(ctx,
		`SELECT id, cinema_id, name, role FROM employees WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return e, nil
}

func (r *CatalogRepo) CountStaff(ctx context.Context, cinemaID int64, role domain.Role) (int64, error) {
	const op = "postgres.CatalogRepo.CountStaff"

	var n int64
	if err := r.handle().QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE cinema_id = $1 AND role = $2`,
		cinemaID, string(role),
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

const customerColumns = `id, name, birth_date, points`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.BirthDate, &c.Points); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) Customer(ctx context.Context, id int64) (*domain.Customer, error) {
	const op = "postgres.CatalogRepo.Customer"

	c, err := scanCustomer(r.handle().QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return c, nil
}

// LockCustomer guards the points balance for the rest of the transaction.
func (r *CatalogRepo) LockCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	const op = "postgres.CatalogRepo.LockCustomer"

	c, err := scanCustomer(r.handle().QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return c, nil
}

func (r *CatalogRepo) SaveCustomerPoints(ctx context.Context, c *domain.Customer) error {
	const op = "postgres.CatalogRepo.SaveCustomerPoints"

	tag, err := r.handle().Exec(ctx,
		`UPDATE customers SET points = $2 WHERE id = $1`,
		c.ID, c.Points,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}
