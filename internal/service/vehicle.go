package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/repository"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/google/uuid"
)

// VehicleService manages customer vehicles. Customer has at most one primary vehicle,
// the first vehicle is always primary. Other attributes are last write wins.
type VehicleService interface {
	FindByCustomer(ctx context.Context, customerID string) ([]*model.Vehicle, error)
	Create(context.Context, *model.Vehicle) (*model.Vehicle, error)
	Update(context.Context, *model.Vehicle) (*model.Vehicle, error)
	SetPrimary(ctx context.Context, id string) (*model.Vehicle, error)
	DeleteByID(context.Context, string) error
}

type vehicleService struct {
	trx          transactor.Transactor
	customerRepo repository.CustomerRepository
	vehicleRepo  repository.VehicleRepository
}

func NewVehicleService(trx transactor.Transactor, customerRepo repository.CustomerRepository, vehicleRepo repository.VehicleRepository) VehicleService {
	return &vehicleService{
		trx:          trx,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
	}
}

func (s *vehicleService) FindByCustomer(ctx context.Context, customerID string) ([]*model.Vehicle, error) {
	if err := s.customerExists(ctx, customerID); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read vehicles - %w", err)
	}
	return vehicles, nil
}

func (s *vehicleService) Create(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.customerExists(ctx, v.CustomerID); err != nil {
			return err
		}

		count, err := s.vehicleRepo.CountByCustomer(ctx, v.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to count vehicles - %w", err)
		}

		now := time.Now().UTC()
		v.ID = uuid.NewString()
		v.CreatedAt = now
		v.UpdatedAt = now
		if count == 0 {
			v.IsPrimary = true
		}

		if v.IsPrimary {
			if err := s.vehicleRepo.UnsetPrimary(ctx, v.CustomerID, v.ID, now); err != nil {
				return fmt.Errorf("failed to unset primary vehicle - %w", err)
			}
		}

		if err := s.vehicleRepo.Create(ctx, v); err != nil {
			return fmt.Errorf("failed to create vehicle - %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Update overwrites vehicle attributes, vehicle can't be moved to another customer
func (s *vehicleService) Update(ctx context.Context, v *model.Vehicle) (*model.Vehicle, error) {
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.vehicleRepo.FindByID(ctx, v.ID)
		if err != nil {
			return fmt.Errorf("failed to read vehicle - %w", err)
		}

		if existing == nil {
			return vehicleNotFound(v.ID)
		}

		v.CustomerID = existing.CustomerID
		v.CreatedAt = existing.CreatedAt
		v.UpdatedAt = time.Now().UTC()

		if v.IsPrimary {
			if err := s.vehicleRepo.UnsetPrimary(ctx, v.CustomerID, v.ID, v.UpdatedAt); err != nil {
				return fmt.Errorf("failed to unset primary vehicle - %w", err)
			}
		}

		updated, err := s.vehicleRepo.Update(ctx, v)
		if err != nil {
			return fmt.Errorf("failed to update vehicle - %w", err)
		}

		if !updated {
			return vehicleNotFound(v.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) SetPrimary(ctx context.Context, id string) (*model.Vehicle, error) {
	var vehicle *model.Vehicle
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		v, err := s.vehicleRepo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to read vehicle - %w", err)
		}

		if v == nil {
			return vehicleNotFound(id)
		}

		now := time.Now().UTC()
		if err := s.vehicleRepo.UnsetPrimary(ctx, v.CustomerID, v.ID, now); err != nil {
			return fmt.Errorf("failed to unset primary vehicle - %w", err)
		}

		if _, err := s.vehicleRepo.SetPrimary(ctx, v.ID, now); err != nil {
			return fmt.Errorf("failed to set primary vehicle - %w", err)
		}

		v.IsPrimary = true
		v.UpdatedAt = now
		vehicle = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *vehicleService) DeleteByID(ctx context.Context, id string) error {
	deleted, err := s.vehicleRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle - %w", err)
	}

	if !deleted {
		return vehicleNotFound(id)
	}
	return nil
}

func (s *vehicleService) customerExists(ctx context.Context, customerID string) error {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to read customer - %w", err)
	}

	if c == nil {
		return customerNotFound(customerID)
	}
	return nil
}

func vehicleNotFound(id string) error {
	return apperrors.NewEntryNotFoundErr(fmt.Sprintf("vehicle with id %s doesn't exist", id))
}
