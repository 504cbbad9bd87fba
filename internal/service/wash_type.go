package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/repository"
	"github.com/google/uuid"
)

type WashTypeService interface {
	FindAll(context.Context) ([]*model.WashType, error)
	FindByID(context.Context, string) (*model.WashType, error)
	Create(context.Context, *model.WashType) (*model.WashType, error)
	Update(context.Context, *model.WashType) (*model.WashType, error)
	DeleteByID(context.Context, string) error
}

type washTypeService struct {
	washTypeRepo repository.WashTypeRepository
}

func NewWashTypeService(washTypeRepo repository.WashTypeRepository) WashTypeService {
	return &washTypeService{washTypeRepo: washTypeRepo}
}

func (s *washTypeService) FindAll(ctx context.Context) ([]*model.WashType, error) {
	washTypes, err := s.washTypeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wash types - %w", err)
	}
	return washTypes, nil
}

func (s *washTypeService) FindByID(ctx context.Context, id string) (*model.WashType, error) {
	wt, err := s.washTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read wash type - %w", err)
	}

	if wt == nil {
		return nil, washTypeNotFound(id)
	}
	return wt, nil
}

func (s *washTypeService) Create(ctx context.Context, wt *model.WashType) (*model.WashType, error) {
	if !wt.PricesPositive() {
		return nil, apperrors.ErrNonPositivePrice
	}

	now := time.Now().UTC()
	wt.ID = uuid.NewString()
	wt.CreatedAt = now
	wt.UpdatedAt = now

	if err := s.washTypeRepo.Create(ctx, wt); err != nil {
		return nil, fmt.Errorf("failed to create wash type - %w", err)
	}
	return wt, nil
}

// Update changes catalog entry, prices of already recorded washes stay as they were
func (s *washTypeService) Update(ctx context.Context, wt *model.WashType) (*model.WashType, error) {
	if !wt.PricesPositive() {
		return nil, apperrors.ErrNonPositivePrice
	}

	wt.UpdatedAt = time.Now().UTC()
	updated, err := s.washTypeRepo.Update(ctx, wt)
	if err != nil {
		return nil, fmt.Errorf("failed to update wash type - %w", err)
	}

	if updated == nil {
		return nil, washTypeNotFound(wt.ID)
	}
	return updated, nil
}

func (s *washTypeService) DeleteByID(ctx context.Context, id string) error {
	deleted, err := s.washTypeRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete wash type - %w", err)
	}

	if !deleted {
		return washTypeNotFound(id)
	}
	return nil
}

func washTypeNotFound(id string) error {
	return apperrors.NewEntryNotFoundErr(fmt.Sprintf("wash type with id %s doesn't exist", id))
}
