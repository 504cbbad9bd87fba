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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testWashTypeID = "16fd2706-8baf-433b-82eb-8c7fada847da"
	testVehicleID  = "9a3c0b0e-52a4-4ba1-8a59-05cc0f1c3e3b"
	testAdminID    = "b7f0f4c4-3a5e-4a55-9f3a-1f6f0f8e2d10"
)

var testWashType = &model.WashType{
	ID:             testWashTypeID,
	Name:           "Full Valet",
	Description:    "Inside and out",
	PriceSmallCar:  decimal.NewFromInt(100),
	PriceBakkieSUV: decimal.NewFromInt(150),
}

type washServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	washSvc         WashService
	transactorMock    *rpsMocks.Transactor
	customerRpsMock   *rpsMocks.CustomerRepository
	washTypeRpsMock   *rpsMocks.WashTypeRepository
	vehicleRpsMock    *rpsMocks.VehicleRepository
	washRpsMock       *rpsMocks.WashRepository
	customerCacheMock *cacheMocks.CustomerCache
	notifierMock      *notifyMocks.Notifier
}

func (s *washServiceTestSuite) SetupSuite() {
	s.ctx = context.Background()
}

func (s *washServiceTestSuite) SetupTest() {
	t := s.T()
	s.transactorMock = rpsMocks.NewTransactor(t)
	s.transactorMock.On(
		"WithinTransaction",
		s.ctx,
		mock.AnythingOfType("func(context.Context) error"),
	).Return(func(ctx context.Context, txFunc func(ctx context.Context) error) error {
		return txFunc(ctx)
	}).Maybe()

	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.washTypeRpsMock = rpsMocks.NewWashTypeRepository(t)
	s.vehicleRpsMock = rpsMocks.NewVehicleRepository(t)
	s.washRpsMock = rpsMocks.NewWashRepository(t)
	s.customerCacheMock = cacheMocks.NewCustomerCache(t)
	s.notifierMock = notifyMocks.NewNotifier(t)

	ledger := NewLedgerService(s.customerRpsMock, s.customerCacheMock, s.notifierMock)
	s.washSvc = NewWashService(s.transactorMock, ledger, s.customerRpsMock, s.washTypeRpsMock, s.vehicleRpsMock, s.washRpsMock)
}

func (s *washServiceTestSuite) TestRecordPaidWashProgression() {
	s.washTypeRpsMock.On("FindByID", s.ctx, testWashTypeID).Return(testWashType, nil).Once()
	after := customerWithCount(6)
	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 5, Customer: after}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()
	s.notifierMock.On("FreeWashEarned", mock.Anything, after).Return(nil).Once()
	s.washRpsMock.On("Create", s.ctx, mock.MatchedBy(func(w *model.Wash) bool {
		return w.CustomerID == testCustomerID &&
			w.CarType == model.CarSizeSmall &&
			w.Price.Equal(decimal.NewFromInt(100)) &&
			!w.WasFree &&
			w.VehicleID == nil &&
			w.AddedBy != nil && *w.AddedBy == testAdminID
	})).Return(nil).Once()

	s.T().Log("customer at 5 washes records paid small car wash")
	{
		receipt, err := s.washSvc.Record(s.ctx, RecordWash{
			CustomerID: testCustomerID,
			WashTypeID: testWashTypeID,
			CarSize:    model.CarSizeSmall,
			AddedBy:    testAdminID,
		})
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal(6, receipt.Customer.WashCount)
		s.Assert().True(receipt.Customer.FreeWashAvailable())
		s.Assert().Equal("100", receipt.Wash.Price.String())
		s.Assert().Equal(testWashType, receipt.Wash.WashType, "receipt must carry wash type")
		s.Assert().Nil(receipt.Wash.Vehicle)
	}
}

func (s *washServiceTestSuite) TestRecordUsesTierPrice() {
	vehicleID := testVehicleID
	vehicle := &model.Vehicle{ID: testVehicleID, CustomerID: testCustomerID, Registration: "CA 123-456"}

	s.washTypeRpsMock.On("FindByID", s.ctx, testWashTypeID).Return(testWashType, nil).Once()
	s.vehicleRpsMock.On("FindByID", s.ctx, testVehicleID).Return(vehicle, nil).Once()
	s.customerRpsMock.On("Redeem", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 6, Customer: customerWithCount(0)}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()
	s.washRpsMock.On("Create", s.ctx, mock.MatchedBy(func(w *model.Wash) bool {
		return w.Price.Equal(decimal.NewFromInt(150)) && w.WasFree && w.VehicleID != nil && *w.VehicleID == testVehicleID
	})).Return(nil).Once()

	s.T().Log("free bakkie wash is recorded with bakkie price and vehicle")
	{
		receipt, err := s.washSvc.Record(s.ctx, RecordWash{
			CustomerID: testCustomerID,
			WashTypeID: testWashTypeID,
			CarSize:    model.CarSizeBakkieSUV,
			VehicleID:  &vehicleID,
			Free:       true,
		})
		s.Require().NoError(err)
		s.Assert().Equal(0, receipt.Customer.WashCount)
		s.Assert().Equal(vehicle, receipt.Wash.Vehicle)
		s.Assert().Nil(receipt.Wash.AddedBy)
	}
}

func (s *washServiceTestSuite) TestRecordInvalidCarSize() {
	s.T().Log("unknown car size is rejected before transaction starts")
	{
		_, err := s.washSvc.Record(s.ctx, RecordWash{CustomerID: testCustomerID, WashTypeID: testWashTypeID, CarSize: "truck"})
		s.Assert().ErrorIs(err, apperrors.ErrInvalidCarSize)
		s.transactorMock.AssertNotCalled(s.T(), "WithinTransaction", mock.Anything, mock.Anything)
	}
}

func (s *washServiceTestSuite) TestRecordCatalogEntryMissing() {
	s.washTypeRpsMock.On("FindByID", s.ctx, testWashTypeID).Return(nil, nil).Once()

	s.T().Log("wash type deleted concurrently, nothing is written")
	{
		_, err := s.washSvc.Record(s.ctx, RecordWash{CustomerID: testCustomerID, WashTypeID: testWashTypeID, CarSize: model.CarSizeSmall})
		s.Assert().ErrorIs(err, apperrors.ErrCatalogEntryMissing)
		s.customerRpsMock.AssertNotCalled(s.T(), "Increment", mock.Anything, mock.Anything, mock.Anything)
		s.washRpsMock.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	}
}

func (s *washServiceTestSuite) TestRecordForeignVehicle() {
	vehicleID := testVehicleID
	s.washTypeRpsMock.On("FindByID", s.ctx, testWashTypeID).Return(testWashType, nil).Once()
	s.vehicleRpsMock.On("FindByID", s.ctx, testVehicleID).Return(&model.Vehicle{ID: testVehicleID, CustomerID: "another-customer"}, nil).Once()

	s.T().Log("vehicle of another customer can't be used")
	{
		_, err := s.washSvc.Record(s.ctx, RecordWash{CustomerID: testCustomerID, WashTypeID: testWashTypeID, CarSize: model.CarSizeSmall, VehicleID: &vehicleID})
		s.Assert().ErrorIs(err, apperrors.ErrForeignVehicle)
		s.washRpsMock.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	}
}

func (s *washServiceTestSuite) TestRecordFreeWashIneligible() {
	s.washTypeRpsMock.On("FindByID", s.ctx, testWashTypeID).Return(testWashType, nil).Once()
	s.customerRpsMock.On("Redeem", s.ctx, testCustomerID, anyTime).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", s.ctx, testCustomerID).Return(customerWithCount(4), nil).Once()

	s.T().Log("ineligible redemption leaves no wash row behind")
	{
		_, err := s.washSvc.Record(s.ctx, RecordWash{CustomerID: testCustomerID, WashTypeID: testWashTypeID, CarSize: model.CarSizeSmall, Free: true})
		s.Assert().ErrorIs(err, apperrors.ErrIneligible)
		s.washRpsMock.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	}
}

func (s *washServiceTestSuite) TestRecordInsertFailed() {
	s.washTypeRpsMock.On("FindByID", s.ctx, testWashTypeID).Return(testWashType, nil).Once()
	s.customerRpsMock.On("Increment", s.ctx, testCustomerID, anyTime).Return(&model.LedgerChange{Before: 1, Customer: customerWithCount(2)}, nil).Once()
	s.customerCacheMock.On("DeleteByID", mock.Anything, testCustomerID).Return(nil).Once()
	s.washRpsMock.On("Create", s.ctx, mock.AnythingOfType("*model.Wash")).Return(errors.New("insert failed")).Once()

	s.T().Log("insert failure is raised so transaction rolls the adjustment back")
	{
		receipt, err := s.washSvc.Record(s.ctx, RecordWash{CustomerID: testCustomerID, WashTypeID: testWashTypeID, CarSize: model.CarSizeSmall})
		s.Assert().Error(err)
		s.Assert().Nil(receipt)
	}
}

func (s *washServiceTestSuite) TestHistoryOfMissingCustomer() {
	s.customerRpsMock.On("FindByID", s.ctx, testCustomerID).Return(nil, nil).Once()

	s.T().Log("history of missing customer is not found")
	{
		_, err := s.washSvc.History(s.ctx, testCustomerID)
		s.Assert().True(apperrors.IsNotFound(err))
	}
}

func (s *washServiceTestSuite) TestReceipt() {
	washID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	wash := &model.Wash{
		ID:          washID,
		CustomerID:  testCustomerID,
		WashTypeID:  testWashTypeID,
		CarType:     model.CarSizeSmall,
		Price:       decimal.NewFromInt(100),
		PerformedAt: time.Now().UTC(),
		WashType:    testWashType,
	}

	s.washRpsMock.On("FindByID", s.ctx, washID).Return(wash, nil).Once()
	s.customerRpsMock.On("FindByID", s.ctx, testCustomerID).Return(customerWithCount(3), nil).Once()

	s.T().Log("receipt is joined wash with customer")
	{
		receipt, err := s.washSvc.Receipt(s.ctx, washID)
		s.Require().NoError(err)
		s.Assert().Equal(wash, receipt.Wash)
		s.Assert().Equal(testCustomerID, receipt.Customer.ID)
	}
}

func TestWashServiceTestSuite(t *testing.T) {
	suite.Run(t, new(washServiceTestSuite))
}
