package service

import (
	"context"
	"errors"
	"testing"
	"time"

	cacheMocks "github.com/WeDoCheapies/website/internal/cache/mocks"
	apperrors "github.com/WeDoCheapies/website/internal/errors"
	"github.com/WeDoCheapies/website/internal/model"
	notifyMocks "github.com/WeDoCheapies/website/internal/notify/mocks"
	rpsMocks "github.com/WeDoCheapies/website/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testCustomerID = "ecc770d9-4576-4f72-affa-8b1454246692"

var anyTime = mock.AnythingOfType("time.Time")

func customerWithCount(count int) *model.Customer {
	now := time.Now().UTC()
	return &model.Customer{
		ID:        testCustomerID,
		Name:      "Lerato Mokoena",
		Phone:     "0831234567",
		Email:     "lerato@somemail.co.za",
		WashCount: count,
		LastVisit: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type ledgerServiceTestSuite struct {
	suite.Suite
	ctx               context.Context
	ledgerSvc         LedgerService
	customerRpsMock   *rpsMocks.CustomerRepository
	customerCacheMock *cacheMocks.CustomerCache
	notifierMock      *notifyMocks.Notifier
}

func (s *ledgerServiceTestSuite) SetupSuite() {
	s.ctx = context.Background()
}

func (s *ledgerServiceTestSuite) SetupTest() {
	t := s.T()
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.customerCacheMock = cacheMocks.NewCustomerCache(t)
	s.notifierMock = notifyMocks.NewNotifier(t)
	s.ledgerSvc = NewLedgerService(s.customerRpsMock, s.customerCacheMock, s.notifierMock)
}

func (s *ledgerServiceTestSuite) TestRecordPaidWashReachesFreeWash() {
	after := customerWithCount(6)

	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 5, Customer: after}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()
	s.notifierMock.On("FreeWashEarned", mock.Anything, after).Return(nil).Once()

	s.T().Log("customer at 5 washes gets free wash after paid wash")
	{
		c, err := s.ledgerSvc.RecordPaidWash(s.ctx, testCustomerID)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal(6, c.WashCount)
		s.Assert().True(s.ledgerSvc.EligibleForFreeWash(c), "customer with 6 washes must be eligible")
	}
}

func (s *ledgerServiceTestSuite) TestRecordPaidWashBelowThreshold() {
	after := customerWithCount(4)

	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 3, Customer: after}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()

	s.T().Log("customer below threshold is not notified")
	{
		c, err := s.ledgerSvc.RecordPaidWash(s.ctx, testCustomerID)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal(4, c.WashCount)
		s.Assert().False(s.ledgerSvc.EligibleForFreeWash(c))
		s.notifierMock.AssertNotCalled(s.T(), "FreeWashEarned", mock.Anything, mock.Anything)
	}
}

func (s *ledgerServiceTestSuite) TestRecordPaidWashAtCapDoesNotNotifyAgain() {
	after := customerWithCount(6)

	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 6, Customer: after}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()

	s.T().Log("count stays at 6 and customer is not notified twice")
	{
		c, err := s.ledgerSvc.RecordPaidWash(s.ctx, testCustomerID)
		s.Require().NoError(err)
		s.Assert().Equal(6, c.WashCount)
		s.notifierMock.AssertNotCalled(s.T(), "FreeWashEarned", mock.Anything, mock.Anything)
	}
}

func (s *ledgerServiceTestSuite) TestRecordPaidWashCustomerDeleted() {
	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(nil, nil).Once()

	s.T().Log("customer was deleted concurrently")
	{
		_, err := s.ledgerSvc.RecordPaidWash(s.ctx, testCustomerID)
		s.Assert().True(apperrors.IsNotFound(err), "not found error must be raised")
		s.customerCacheMock.AssertNotCalled(s.T(), "DeleteByID", mock.Anything, mock.Anything)
	}
}

func (s *ledgerServiceTestSuite) TestRecordPaidWashStoreFailed() {
	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(nil, errors.New("connection reset")).Once()

	s.T().Log("store error is raised up")
	{
		_, err := s.ledgerSvc.RecordPaidWash(s.ctx, testCustomerID)
		s.Assert().Error(err)
		s.Assert().False(apperrors.IsNotFound(err))
		s.Assert().False(apperrors.IsBusiness(err))
	}
}

func (s *ledgerServiceTestSuite) TestRedeemIneligible() {
	s.customerRpsMock.On("Redeem", s.ctx, testCustomerID, anyTime).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", s.ctx, testCustomerID).Return(customerWithCount(3), nil).Once()

	s.T().Log("customer with 3 washes can't redeem")
	{
		_, err := s.ledgerSvc.RecordFreeWashRedemption(s.ctx, testCustomerID)
		s.Assert().ErrorIs(err, apperrors.ErrIneligible)
		s.customerCacheMock.AssertNotCalled(s.T(), "DeleteByID", mock.Anything, mock.Anything)
	}
}

func (s *ledgerServiceTestSuite) TestRedeemCustomerDeleted() {
	s.customerRpsMock.On("Redeem", s.ctx, testCustomerID, anyTime).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", s.ctx, testCustomerID).Return(nil, nil).Once()

	s.T().Log("redeem for missing customer is not found rather than ineligible")
	{
		_, err := s.ledgerSvc.RecordFreeWashRedemption(s.ctx, testCustomerID)
		s.Assert().True(apperrors.IsNotFound(err))
	}
}

func (s *ledgerServiceTestSuite) TestRedeemResetsCount() {
	after := customerWithCount(0)
	redeemedAt := time.Now().UTC()
	after.LastRedeemedAt = &redeemedAt

	s.customerRpsMock.On("Redeem", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 6, Customer: after}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()

	s.T().Log("redemption resets count and stamps redemption time")
	{
		c, err := s.ledgerSvc.RecordFreeWashRedemption(s.ctx, testCustomerID)
		s.Require().NoError(err)
		s.Assert().Equal(0, c.WashCount)
		s.Assert().NotNil(c.LastRedeemedAt)
		s.Assert().False(s.ledgerSvc.EligibleForFreeWash(c))
	}
}

func (s *ledgerServiceTestSuite) TestRemoveWashAlreadyZero() {
	s.customerRpsMock.On("Decrement", s.ctx, testCustomerID, anyTime).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", s.ctx, testCustomerID).Return(customerWithCount(0), nil).Once()

	s.T().Log("wash can't be removed from customer with zero washes")
	{
		_, err := s.ledgerSvc.RemoveWash(s.ctx, testCustomerID)
		s.Assert().ErrorIs(err, apperrors.ErrAlreadyZero)
	}
}

func (s *ledgerServiceTestSuite) TestRemoveWash() {
	s.customerRpsMock.On("Decrement", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 2, Customer: customerWithCount(1)}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()

	s.T().Log("wash removed")
	{
		c, err := s.ledgerSvc.RemoveWash(s.ctx, testCustomerID)
		s.Require().NoError(err)
		s.Assert().Equal(1, c.WashCount)
	}
}

func (s *ledgerServiceTestSuite) TestRecountNotifiesWhenThresholdReached() {
	after := customerWithCount(6)

	s.customerRpsMock.On("Recount", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 4, Customer: after}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()
	s.notifierMock.On("FreeWashEarned", mock.Anything, after).Return(errors.New("mail provider is down")).Once()

	s.T().Log("recount restores count from history, notification failure is not raised")
	{
		c, err := s.ledgerSvc.Recount(s.ctx, testCustomerID)
		s.Require().NoError(err)
		s.Assert().Equal(6, c.WashCount)
	}
}

func (s *ledgerServiceTestSuite) TestCacheFailureDoesNotFailAdjustment() {
	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 0, Customer: customerWithCount(1)}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(errors.New("cache err")).Once()

	s.T().Log("adjustment is already stored, cache error is only logged")
	{
		c, err := s.ledgerSvc.RecordPaidWash(s.ctx, testCustomerID)
		s.Require().NoError(err)
		s.Assert().Equal(1, c.WashCount)
	}
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ledgerServiceTestSuite))
}
