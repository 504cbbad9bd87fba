package handlers

import (
	"context"
	"net/http"

	"github.com/WeDoCheapies/website/internal/middleware"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/service"
	"github.com/labstack/echo/v4"
)

type newCustomer struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Phone           string  `json:"phone" validate:"required,max=32"`
	Email           string  `json:"email" validate:"omitempty,email"`
	CarRegistration *string `json:"car_registration" validate:"omitempty,max=16"`
}

func (nc newCustomer) profile() model.CustomerProfile {
	return model.CustomerProfile{
		Name:            nc.Name,
		Phone:           nc.Phone,
		Email:           nc.Email,
		CarRegistration: nc.CarRegistration,
	}
}

type updateCustomer struct {
	ID string `param:"id" validate:"required,uuid"`
	newCustomer
}

// CustomerHTTPHandler is http handler for customer endpoint, including wash count adjustments
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
	ledgerSvc   service.LedgerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService, ledgerSvc service.LedgerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc, ledgerSvc: ledgerSvc}
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with provided id
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} model.Customer
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// GetAll gets all customers
// @Summary     Get all customers
// @Description Returns all customers ordered by name
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200    {array}  model.Customer
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	customers, err := h.customerSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Post creates new customer
// @Summary     New Customer
// @Description Signs up new loyalty program member with zero washes
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param 		newCustomer body	 newCustomer true "Data for new customer"
// @Success     201    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), nc.profile(), middleware.AdminID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// Put updates customer profile
// @Summary     Update Customer
// @Description Updates customer profile, wash count is never changed by this endpoint
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id     		   path 	string 		   true "Customer guid" Format(uuid)
// @Param 		updateCustomer body	    updateCustomer true "Customer data"
// @Success     200    		   {object} model.Customer
// @Failure     400    		   {object} echo.HTTPError
// @Failure     404    		   {object} echo.HTTPError
// @Failure     500    		   {object} echo.HTTPError
// @Router      /api/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	var uc updateCustomer
	if err := c.Bind(&uc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), uc.ID, uc.profile())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer together with vehicles and wash history
// @Tags        customers
// @Security	ApiKeyAuth
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     204    "Successful status code"
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveWash takes one wash back from customer
// @Summary     Remove wash
// @Description Decrements wash count by one, fails when count is already zero
// @Tags        ledger
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Failure     422    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id}/wash-count/decrement [post]
func (h *CustomerHTTPHandler) RemoveWash(c echo.Context) error {
	return h.adjust(c, h.ledgerSvc.RemoveWash)
}

// Redeem redeems free wash without recording a wash
// @Summary     Redeem free wash
// @Description Resets wash count of eligible customer to zero
// @Tags        ledger
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Failure     422    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id}/redemptions [post]
func (h *CustomerHTTPHandler) Redeem(c echo.Context) error {
	return h.adjust(c, h.ledgerSvc.RecordFreeWashRedemption)
}

// Recount recomputes wash count from wash history
// @Summary     Recount washes
// @Description Recomputes wash count from paid washes performed after last redemption
// @Tags        ledger
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} model.Customer
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id}/wash-count/recount [post]
func (h *CustomerHTTPHandler) Recount(c echo.Context) error {
	return h.adjust(c, h.ledgerSvc.Recount)
}

func (h *CustomerHTTPHandler) adjust(c echo.Context, op func(ctx context.Context, customerID string) (*model.Customer, error)) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	customer, err := op(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}
