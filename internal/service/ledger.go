package service

import (
	"context"
	"fmt"
	"time"

	"github.com/WeDoCheapies/website/internal/cache"
	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/metrics"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/notify"
	"github.com/WeDoCheapies/website/internal/repository"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/sirupsen/logrus"
)

const (
	opRecordPaidWash = "record_paid_wash"
	opRedeem         = "redeem_free_wash"
	opRemoveWash     = "remove_wash"
	opRecount        = "recount"
)

// LedgerService applies loyalty rules to customer wash count.
// Every adjustment is a single statement evaluated by the database, client held counts are never written back.
type LedgerService interface {
	RecordPaidWash(ctx context.Context, customerID string) (*model.Customer, error)
	RecordFreeWashRedemption(ctx context.Context, customerID string) (*model.Customer, error)
	RemoveWash(ctx context.Context, customerID string) (*model.Customer, error)
	Recount(ctx context.Context, customerID string) (*model.Customer, error)
	EligibleForFreeWash(*model.Customer) bool
}

type ledgerService struct {
	customerRepo  repository.CustomerRepository
	customerCache cache.CustomerCache
	notifier      notify.Notifier
}

func NewLedgerService(customerRepo repository.CustomerRepository, customerCache cache.CustomerCache, notifier notify.Notifier) LedgerService {
	return &ledgerService{
		customerRepo:  customerRepo,
		customerCache: customerCache,
		notifier:      notifier,
	}
}

func (s *ledgerService) RecordPaidWash(ctx context.Context, customerID string) (*model.Customer, error) {
	change, err := s.customerRepo.Increment(ctx, customerID, time.Now().UTC())
	if err != nil {
		metrics.LedgerOperations.WithLabelValues(opRecordPaidWash, metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to record paid wash - %w", err)
	}

	if change == nil {
		metrics.LedgerOperations.WithLabelValues(opRecordPaidWash, metrics.OutcomeNotFound).Inc()
		return nil, customerNotFound(customerID)
	}

	s.settle(ctx, opRecordPaidWash, change)
	return change.Customer, nil
}

// RecordFreeWashRedemption resets wash count, eligibility is checked against stored count in the same statement
func (s *ledgerService) RecordFreeWashRedemption(ctx context.Context, customerID string) (*model.Customer, error) {
	change, err := s.customerRepo.Redeem(ctx, customerID, time.Now().UTC())
	if err != nil {
		metrics.LedgerOperations.WithLabelValues(opRedeem, metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to redeem free wash - %w", err)
	}

	if change == nil {
		return nil, s.rejected(ctx, opRedeem, customerID, apperrors.ErrIneligible)
	}

	s.settle(ctx, opRedeem, change)
	return change.Customer, nil
}

func (s *ledgerService) RemoveWash(ctx context.Context, customerID string) (*model.Customer, error) {
	change, err := s.customerRepo.Decrement(ctx, customerID, time.Now().UTC())
	if err != nil {
		metrics.LedgerOperations.WithLabelValues(opRemoveWash, metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to remove wash - %w", err)
	}

	if change == nil {
		return nil, s.rejected(ctx, opRemoveWash, customerID, apperrors.ErrAlreadyZero)
	}

	s.settle(ctx, opRemoveWash, change)
	return change.Customer, nil
}

// Recount rebuilds wash count from wash history, manual removals made since the last redemption are not kept
func (s *ledgerService) Recount(ctx context.Context, customerID string) (*model.Customer, error) {
	change, err := s.customerRepo.Recount(ctx, customerID, time.Now().UTC())
	if err != nil {
		metrics.LedgerOperations.WithLabelValues(opRecount, metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to recount washes - %w", err)
	}

	if change == nil {
		metrics.LedgerOperations.WithLabelValues(opRecount, metrics.OutcomeNotFound).Inc()
		return nil, customerNotFound(customerID)
	}

	s.settle(ctx, opRecount, change)
	return change.Customer, nil
}

func (s *ledgerService) EligibleForFreeWash(c *model.Customer) bool {
	return c != nil && c.FreeWashAvailable()
}

// rejected tells apart guard failure and missing customer, guarded statement doesn't distinguish them
func (s *ledgerService) rejected(ctx context.Context, op string, customerID string, guardErr error) error {
	c, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		metrics.LedgerOperations.WithLabelValues(op, metrics.OutcomeFailed).Inc()
		return fmt.Errorf("failed to read customer - %w", err)
	}

	if c == nil {
		metrics.LedgerOperations.WithLabelValues(op, metrics.OutcomeNotFound).Inc()
		return customerNotFound(customerID)
	}

	metrics.LedgerOperations.WithLabelValues(op, metrics.OutcomeRejected).Inc()
	return guardErr
}

// settle runs side effects of successful adjustment once enclosing transaction, if any, is committed
func (s *ledgerService) settle(ctx context.Context, op string, change *model.LedgerChange) {
	transactor.AfterCommit(ctx, func() {
		metrics.LedgerOperations.WithLabelValues(op, metrics.OutcomeOK).Inc()

		c := change.Customer
		if err := s.customerCache.DeleteByID(context.WithoutCancel(ctx), c.ID); err != nil {
			logrus.WithError(err).WithField("customer", c.ID).Error("failed to evict customer from cache")
		}

		if change.EarnedFreeWash() {
			metrics.FreeWashesEarned.Inc()
			if err := s.notifier.FreeWashEarned(context.WithoutCancel(ctx), c); err != nil {
				logrus.WithError(err).WithField("customer", c.ID).Warn("failed to notify customer about free wash")
			}
		}
	})
}
