package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/metrics"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/repository"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/google/uuid"
)

// RecordWash is request to record a wash, price is always taken from catalog
type RecordWash struct {
	CustomerID string
	WashTypeID string
	CarSize    model.CarSize
	VehicleID  *string
	Free       bool
	AddedBy    string
}

// WashService records washes and reads wash history
type WashService interface {
	Record(context.Context, RecordWash) (*model.WashReceipt, error)
	History(ctx context.Context, customerID string) ([]*model.Wash, error)
	Receipt(ctx context.Context, washID string) (*model.WashReceipt, error)
}

type washService struct {
	trx          transactor.Transactor
	ledger       LedgerService
	customerRepo repository.CustomerRepository
	washTypeRepo repository.WashTypeRepository
	vehicleRepo  repository.VehicleRepository
	washRepo     repository.WashRepository
}

func NewWashService(
	trx transactor.Transactor,
	ledger LedgerService,
	customerRepo repository.CustomerRepository,
	washTypeRepo repository.WashTypeRepository,
	vehicleRepo repository.VehicleRepository,
	washRepo repository.WashRepository,
) WashService {
	return &washService{
		trx:          trx,
		ledger:       ledger,
		customerRepo: customerRepo,
		washTypeRepo: washTypeRepo,
		vehicleRepo:  vehicleRepo,
		washRepo:     washRepo,
	}
}

// Record inserts wash with price frozen from catalog and adjusts wash count in one transaction:
// either both wash row and ledger adjustment are stored or none of them.
// Ledger is adjusted first, so customer row stays locked until wash row is inserted.
func (s *washService) Record(ctx context.Context, rw RecordWash) (*model.WashReceipt, error) {
	if !rw.CarSize.Valid() {
		return nil, apperrors.ErrInvalidCarSize
	}

	var receipt *model.WashReceipt
	err := s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		washType, err := s.washTypeRepo.FindByID(ctx, rw.WashTypeID)
		if err != nil {
			return fmt.Errorf("failed to read wash type - %w", err)
		}

		if washType == nil {
			return apperrors.ErrCatalogEntryMissing
		}

		price, _ := washType.PriceFor(rw.CarSize)

		var vehicle *model.Vehicle
		if rw.VehicleID != nil {
			vehicle, err = s.vehicleRepo.FindByID(ctx, *rw.VehicleID)
			if err != nil {
				return fmt.Errorf("failed to read vehicle - %w", err)
			}

			if vehicle == nil || vehicle.CustomerID != rw.CustomerID {
				return apperrors.ErrForeignVehicle
			}
		}

		var customer *model.Customer
		if rw.Free {
			customer, err = s.ledger.RecordFreeWashRedemption(ctx, rw.CustomerID)
		} else {
			customer, err = s.ledger.RecordPaidWash(ctx, rw.CustomerID)
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		wash := &model.Wash{
			ID:          uuid.NewString(),
			CustomerID:  rw.CustomerID,
			WashTypeID:  washType.ID,
			CarType:     rw.CarSize,
			Price:       price,
			WasFree:     rw.Free,
			VehicleID:   rw.VehicleID,
			PerformedAt: now,
			CreatedAt:   now,
		}

		if rw.AddedBy != "" {
			wash.AddedBy = &rw.AddedBy
		}

		if err := s.washRepo.Create(ctx, wash); err != nil {
			return fmt.Errorf("failed to create wash - %w", err)
		}

		wash.WashType = washType
		wash.Vehicle = vehicle
		receipt = &model.WashReceipt{Wash: wash, Customer: customer}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WashesRecorded.WithLabelValues(string(rw.CarSize), strconv.FormatBool(rw.Free)).Inc()
	return receipt, nil
}

func (s *washService) History(ctx context.Context, customerID string) ([]*model.Wash, error) {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer - %w", err)
	}

	if c == nil {
		return nil, customerNotFound(customerID)
	}

	washes, err := s.washRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read wash history - %w", err)
	}
	return washes, nil
}

// Receipt returns joined wash together with current customer state
func (s *washService) Receipt(ctx context.Context, washID string) (*model.WashReceipt, error) {
	wash, err := s.washRepo.FindByID(ctx, washID)
	if err != nil {
		return nil, fmt.Errorf("failed to read wash - %w", err)
	}

	if wash == nil {
		return nil, apperrors.NewEntryNotFoundErr(fmt.Sprintf("wash with id %s doesn't exist", washID))
	}

	c, err := s.customerRepo.FindByID(ctx, wash.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer - %w", err)
	}

	if c == nil {
		return nil, customerNotFound(wash.CustomerID)
	}
	return &model.WashReceipt{Wash: wash, Customer: c}, nil
}
