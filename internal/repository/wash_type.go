package repository

import (
	"context"
	"errors"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

const washTypeColumns = "t.id, t.name, t.description, t.price_small_car, t.price_bakkie_suv, t.created_at, t.updated_at"

type WashTypeRepository interface {
	FindByID(context.Context, string) (*model.WashType, error)
	FindAll(context.Context) ([]*model.WashType, error)
	Create(context.Context, *model.WashType) error
	Update(context.Context, *model.WashType) (*model.WashType, error)
	DeleteByID(context.Context, string) (bool, error)
}

type postgresWashTypeRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

func NewPostgresWashTypeRepository(trx transactor.PgxWithinTransactionExecutor) WashTypeRepository {
	return &postgresWashTypeRepository{trx: trx}
}

func (r *postgresWashTypeRepository) FindByID(ctx context.Context, id string) (*model.WashType, error) {
	q := "SELECT " + washTypeColumns + " FROM wash_types t WHERE t.id = $1"
	wt, err := scanWashType(r.trx.Executor(ctx).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return wt, nil
}

func (r *postgresWashTypeRepository) FindAll(ctx context.Context) ([]*model.WashType, error) {
	q := "SELECT " + washTypeColumns + " FROM wash_types t ORDER BY t.price_small_car"

	rows, err := r.trx.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	washTypes := make([]*model.WashType, 0)
	for rows.Next() {
		wt, err := scanWashType(rows)
		if err != nil {
			return nil, err
		}
		washTypes = append(washTypes, wt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return washTypes, nil
}

func (r *postgresWashTypeRepository) Create(ctx context.Context, wt *model.WashType) error {
	q := `INSERT INTO wash_types(id, name, description, price_small_car, price_bakkie_suv, created_at, updated_at)
		  VALUES($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.trx.Executor(ctx).Exec(ctx, q, wt.ID, wt.Name, wt.Description, wt.PriceSmallCar, wt.PriceBakkieSUV, wt.CreatedAt, wt.UpdatedAt)
	return err
}

func (r *postgresWashTypeRepository) Update(ctx context.Context, wt *model.WashType) (*model.WashType, error) {
	q := `UPDATE wash_types t SET name = $2, description = $3, price_small_car = $4, price_bakkie_suv = $5, updated_at = $6
		  WHERE t.id = $1
		  RETURNING ` + washTypeColumns
	row := r.trx.Executor(ctx).QueryRow(ctx, q, wt.ID, wt.Name, wt.Description, wt.PriceSmallCar, wt.PriceBakkieSUV, wt.UpdatedAt)

	updated, err := scanWashType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

// DeleteByID deletes wash type, ErrWashTypeInUse is returned if any wash references it
func (r *postgresWashTypeRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	q := "DELETE FROM wash_types WHERE id = $1"
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, apperrors.ErrWashTypeInUse
		}
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func scanWashType(row pgx.Row) (*model.WashType, error) {
	var wt model.WashType
	if err := row.Scan(&wt.ID, &wt.Name, &wt.Description, &wt.PriceSmallCar, &wt.PriceBakkieSUV, &wt.CreatedAt, &wt.UpdatedAt); err != nil {
		return nil, err
	}
	return &wt, nil
}
