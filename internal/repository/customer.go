package repository

import (
	"context"
	"errors"
	"time"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/jackc/pgx/v4"
)

const customerColumns = "c.id, c.name, c.phone, c.email, c.car_registration, c.wash_count, c.last_visit, c.last_redeemed_at, c.created_by, c.created_at, c.updated_at"

// CustomerRepository stores customers. Ledger methods are evaluated by the database as a single
// statement, so concurrent terminals never overwrite each other's adjustments.
// Ledger methods return nil change if customer doesn't exist or guard condition doesn't hold.
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindAll(context.Context) ([]*model.Customer, error)
	Create(context.Context, *model.Customer) error
	UpdateProfile(context.Context, string, model.CustomerProfile, time.Time) (*model.Customer, error)
	DeleteByID(context.Context, string) (bool, error)
	Increment(context.Context, string, time.Time) (*model.LedgerChange, error)
	Decrement(context.Context, string, time.Time) (*model.LedgerChange, error)
	Redeem(context.Context, string, time.Time) (*model.LedgerChange, error)
	Recount(context.Context, string, time.Time) (*model.LedgerChange, error)
}

type postgresCustomerRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

func NewPostgresCustomerRepository(trx transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &postgresCustomerRepository{trx: trx}
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers c WHERE c.id = $1"
	c, err := scanCustomer(r.trx.Executor(ctx).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers c ORDER BY c.name"

	rows, err := r.trx.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := `INSERT INTO customers(id, name, phone, email, car_registration, wash_count, last_visit, last_redeemed_at, created_by, created_at, updated_at)
		  VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.trx.Executor(ctx).Exec(
		ctx, q, c.ID, c.Name, c.Phone, c.Email, c.CarRegistration, c.WashCount,
		c.LastVisit, c.LastRedeemedAt, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *postgresCustomerRepository) UpdateProfile(ctx context.Context, id string, p model.CustomerProfile, now time.Time) (*model.Customer, error) {
	q := `UPDATE customers c SET name = $2, phone = $3, email = $4, car_registration = $5, updated_at = $6
		  WHERE c.id = $1
		  RETURNING ` + customerColumns
	row := r.trx.Executor(ctx).QueryRow(ctx, q, id, p.Name, p.Phone, p.Email, p.CarRegistration, now)

	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	q := "DELETE FROM customers WHERE id = $1"
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresCustomerRepository) Increment(ctx context.Context, id string, now time.Time) (*model.LedgerChange, error) {
	q := `UPDATE customers c SET wash_count = LEAST(c.wash_count + 1, $3), last_visit = $2, updated_at = $2
		  FROM (SELECT id, wash_count FROM customers WHERE id = $1 FOR UPDATE) prev
		  WHERE c.id = prev.id
		  RETURNING prev.wash_count, ` + customerColumns
	return r.ledgerChange(ctx, q, id, now, model.FreeWashThreshold)
}

func (r *postgresCustomerRepository) Decrement(ctx context.Context, id string, now time.Time) (*model.LedgerChange, error) {
	q := `UPDATE customers c SET wash_count = c.wash_count - 1, last_visit = $2, updated_at = $2
		  FROM (SELECT id, wash_count FROM customers WHERE id = $1 AND wash_count > 0 FOR UPDATE) prev
		  WHERE c.id = prev.id AND c.wash_count > 0
		  RETURNING prev.wash_count, ` + customerColumns
	return r.ledgerChange(ctx, q, id, now)
}

func (r *postgresCustomerRepository) Redeem(ctx context.Context, id string, now time.Time) (*model.LedgerChange, error) {
	q := `UPDATE customers c SET wash_count = 0, last_redeemed_at = $2, last_visit = $2, updated_at = $2
		  FROM (SELECT id, wash_count FROM customers WHERE id = $1 AND wash_count >= $3 FOR UPDATE) prev
		  WHERE c.id = prev.id AND c.wash_count >= $3
		  RETURNING prev.wash_count, ` + customerColumns
	return r.ledgerChange(ctx, q, id, now, model.FreeWashThreshold)
}

// Recount derives wash count from history: paid washes performed after the last redemption
func (r *postgresCustomerRepository) Recount(ctx context.Context, id string, now time.Time) (*model.LedgerChange, error) {
	q := `UPDATE customers c SET updated_at = $2, wash_count = LEAST((
		      SELECT count(*) FROM washes w
		      WHERE w.customer_id = c.id AND NOT w.was_free
		        AND (c.last_redeemed_at IS NULL OR w.performed_at > c.last_redeemed_at)
		  ), $3)
		  FROM (SELECT id, wash_count FROM customers WHERE id = $1 FOR UPDATE) prev
		  WHERE c.id = prev.id
		  RETURNING prev.wash_count, ` + customerColumns
	return r.ledgerChange(ctx, q, id, now, model.FreeWashThreshold)
}

func (r *postgresCustomerRepository) ledgerChange(ctx context.Context, q string, args ...any) (*model.LedgerChange, error) {
	var before int
	c, err := scanCustomer(r.trx.Executor(ctx).QueryRow(ctx, q, args...), &before)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &model.LedgerChange{Before: before, Customer: c}, nil
}

// scanCustomer scans customer columns, leading extra destinations are scanned first
func scanCustomer(row pgx.Row, leading ...any) (*model.Customer, error) {
	var c model.Customer
	dest := append(leading,
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.CarRegistration, &c.WashCount,
		&c.LastVisit, &c.LastRedeemedAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}
