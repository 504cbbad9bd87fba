package service

import (
	"context"
	"fmt"
	"time"

	"github.com/WeDoCheapies/website/internal/cache"
	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/repository"
	"github.com/google/uuid"
)

// CustomerService manages customer profiles, wash count is changed only through LedgerService
type CustomerService interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	Create(ctx context.Context, profile model.CustomerProfile, createdBy string) (*model.Customer, error)
	Update(ctx context.Context, id string, profile model.CustomerProfile) (*model.Customer, error)
	DeleteByID(context.Context, string) error
}

type customerService struct {
	customerRepo  repository.CustomerRepository
	customerCache cache.CustomerCache
}

func NewCustomerService(customerRepo repository.CustomerRepository, customerCache cache.CustomerCache) CustomerService {
	return &customerService{
		customerRepo:  customerRepo,
		customerCache: customerCache,
	}
}

func (s *customerService) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers - %w", err)
	}
	return customers, nil
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer from cache - %w", err)
	}

	if c != nil {
		return c, nil
	}

	version, err := s.customerCache.Version(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer cache version - %w", err)
	}

	c, err = s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer - %w", err)
	}

	if c == nil {
		return nil, customerNotFound(id)
	}

	if err := s.customerCache.Create(ctx, c, version); err != nil {
		return nil, fmt.Errorf("failed to cache customer - %w", err)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, profile model.CustomerProfile, createdBy string) (*model.Customer, error) {
	now := time.Now().UTC()
	c := &model.Customer{
		ID:              uuid.NewString(),
		Name:            profile.Name,
		Phone:           profile.Phone,
		Email:           profile.Email,
		CarRegistration: profile.CarRegistration,
		WashCount:       0,
		LastVisit:       &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if createdBy != "" {
		c.CreatedBy = &createdBy
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create customer - %w", err)
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, id string, profile model.CustomerProfile) (*model.Customer, error) {
	c, err := s.customerRepo.UpdateProfile(ctx, id, profile, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update customer - %w", err)
	}

	if c == nil {
		return nil, customerNotFound(id)
	}

	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to evict customer from cache - %w", err)
	}
	return c, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	deleted, err := s.customerRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer - %w", err)
	}

	if !deleted {
		return customerNotFound(id)
	}

	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to evict customer from cache - %w", err)
	}
	return nil
}

func customerNotFound(id string) error {
	return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %s doesn't exist", id))
}
