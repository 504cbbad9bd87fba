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

const singlePrimaryVehicleIndex = "vehicles_single_primary_idx"

const vehicleColumns = "v.id, v.customer_id, v.make, v.model, v.year, v.color, v.registration, v.is_primary, v.created_at, v.updated_at"

type VehicleRepository interface {
	FindByID(context.Context, string) (*model.Vehicle, error)
	FindByCustomer(context.Context, string) ([]*model.Vehicle, error)
	CountByCustomer(context.Context, string) (int, error)
	Create(context.Context, *model.Vehicle) error
	Update(context.Context, *model.Vehicle) (bool, error)
	DeleteByID(context.Context, string) (bool, error)
	UnsetPrimary(ctx context.Context, customerID string, exceptID string, now time.Time) error
	SetPrimary(ctx context.Context, id string, now time.Time) (bool, error)
}

type postgresVehicleRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

func NewPostgresVehicleRepository(trx transactor.PgxWithinTransactionExecutor) VehicleRepository {
	return &postgresVehicleRepository{trx: trx}
}

func (r *postgresVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	q := "SELECT " + vehicleColumns + " FROM vehicles v WHERE v.id = $1"
	v, err := scanVehicle(r.trx.Executor(ctx).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresVehicleRepository) FindByCustomer(ctx context.Context, customerID string) ([]*model.Vehicle, error) {
	q := "SELECT " + vehicleColumns + " FROM vehicles v WHERE v.customer_id = $1 ORDER BY v.is_primary DESC, v.created_at DESC"

	rows, err := r.trx.Executor(ctx).Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]*model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *postgresVehicleRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	q := "SELECT count(*) FROM vehicles WHERE customer_id = $1"
	if err := r.trx.Executor(ctx).QueryRow(ctx, q, customerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresVehicleRepository) Create(ctx context.Context, v *model.Vehicle) error {
	q := `INSERT INTO vehicles(id, customer_id, make, model, year, color, registration, is_primary, created_at, updated_at)
		  VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.trx.Executor(ctx).Exec(
		ctx, q, v.ID, v.CustomerID, v.Make, v.Model, v.Year, v.Color, v.Registration, v.IsPrimary, v.CreatedAt, v.UpdatedAt,
	)
	return primaryViolation(err)
}

func (r *postgresVehicleRepository) Update(ctx context.Context, v *model.Vehicle) (bool, error) {
	q := `UPDATE vehicles SET make = $2, model = $3, year = $4, color = $5, registration = $6, is_primary = $7, updated_at = $8
		  WHERE id = $1`
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, v.ID, v.Make, v.Model, v.Year, v.Color, v.Registration, v.IsPrimary, v.UpdatedAt)
	if err != nil {
		return false, primaryViolation(err)
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresVehicleRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	q := "DELETE FROM vehicles WHERE id = $1"
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresVehicleRepository) UnsetPrimary(ctx context.Context, customerID string, exceptID string, now time.Time) error {
	q := "UPDATE vehicles SET is_primary = FALSE, updated_at = $3 WHERE customer_id = $1 AND id <> $2 AND is_primary"
	_, err := r.trx.Executor(ctx).Exec(ctx, q, customerID, exceptID, now)
	return err
}

func (r *postgresVehicleRepository) SetPrimary(ctx context.Context, id string, now time.Time) (bool, error) {
	q := "UPDATE vehicles SET is_primary = TRUE, updated_at = $2 WHERE id = $1"
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, id, now)
	if err != nil {
		return false, primaryViolation(err)
	}
	return comm.RowsAffected() > 0, nil
}

func scanVehicle(row pgx.Row) (*model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.Color, &v.Registration, &v.IsPrimary, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// primaryViolation maps violation of single primary vehicle index, it happens when
// two terminals set primary vehicle of the same customer at once
func primaryViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == singlePrimaryVehicleIndex {
		return apperrors.ErrPrimaryVehicleTaken
	}
	return err
}
