package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const joinedWashQuery = `SELECT w.id, w.customer_id, w.wash_type_id, w.car_type, w.price, w.was_free, w.vehicle_id, w.performed_at, w.added_by, w.created_at,
	` + washTypeColumns + `,
	` + vehicleColumns + `
	FROM washes w
	JOIN wash_types t ON t.id = w.wash_type_id
	LEFT JOIN vehicles v ON v.id = w.vehicle_id`

// WashRepository stores washes. Washes are append-only, there is no update or delete.
type WashRepository interface {
	Create(context.Context, *model.Wash) error
	FindByID(context.Context, string) (*model.Wash, error)
	FindByCustomer(context.Context, string) ([]*model.Wash, error)
}

type postgresWashRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

func NewPostgresWashRepository(trx transactor.PgxWithinTransactionExecutor) WashRepository {
	return &postgresWashRepository{trx: trx}
}

func (r *postgresWashRepository) Create(ctx context.Context, w *model.Wash) error {
	q := `INSERT INTO washes(id, customer_id, wash_type_id, car_type, price, was_free, vehicle_id, performed_at, added_by, created_at)
		  VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.trx.Executor(ctx).Exec(
		ctx, q, w.ID, w.CustomerID, w.WashTypeID, string(w.CarType), w.Price, w.WasFree, w.VehicleID, w.PerformedAt, w.AddedBy, w.CreatedAt,
	)
	if err != nil {
		// referenced rows may be deleted concurrently by another terminal
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			switch pgErr.ConstraintName {
			case "washes_wash_type_id_fkey":
				return apperrors.ErrCatalogEntryMissing
			case "washes_vehicle_id_fkey":
				return apperrors.ErrForeignVehicle
			}
		}
		return err
	}
	return nil
}

// FindByID returns wash joined with its wash type and vehicle
func (r *postgresWashRepository) FindByID(ctx context.Context, id string) (*model.Wash, error) {
	q := joinedWashQuery + " WHERE w.id = $1"
	w, err := scanJoinedWash(r.trx.Executor(ctx).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

// FindByCustomer returns joined wash history of customer, newest first
func (r *postgresWashRepository) FindByCustomer(ctx context.Context, customerID string) ([]*model.Wash, error) {
	q := joinedWashQuery + " WHERE w.customer_id = $1 ORDER BY w.performed_at DESC"

	rows, err := r.trx.Executor(ctx).Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	washes := make([]*model.Wash, 0)
	for rows.Next() {
		w, err := scanJoinedWash(rows)
		if err != nil {
			return nil, err
		}
		washes = append(washes, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return washes, nil
}

func scanJoinedWash(row pgx.Row) (*model.Wash, error) {
	var (
		w       model.Wash
		carType string
		wt      model.WashType
		v       model.Vehicle
	)

	// vehicle columns are nullable because of left join
	var (
		vID           *string
		vCustomerID   *string
		vRegistration *string
		vIsPrimary    *bool
		vCreatedAt    *time.Time
		vUpdatedAt    *time.Time
	)

	err := row.Scan(
		&w.ID, &w.CustomerID, &w.WashTypeID, &carType, &w.Price, &w.WasFree, &w.VehicleID, &w.PerformedAt, &w.AddedBy, &w.CreatedAt,
		&wt.ID, &wt.Name, &wt.Description, &wt.PriceSmallCar, &wt.PriceBakkieSUV, &wt.CreatedAt, &wt.UpdatedAt,
		&vID, &vCustomerID, &v.Make, &v.Model, &v.Year, &v.Color, &vRegistration, &vIsPrimary, &vCreatedAt, &vUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.CarType = model.CarSize(carType)
	w.WashType = &wt

	if vID != nil {
		v.ID = *vID
		v.CustomerID = deref(vCustomerID)
		v.Registration = deref(vRegistration)
		v.IsPrimary = vIsPrimary != nil && *vIsPrimary
		if vCreatedAt != nil {
			v.CreatedAt = *vCreatedAt
		}
		if vUpdatedAt != nil {
			v.UpdatedAt = *vUpdatedAt
		}
		w.Vehicle = &v
	}

	return &w, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
