package handlers

import (
	"net/http"

	"github.com/WeDoCheapies/website/internal/middleware"
	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/service"
	"github.com/labstack/echo/v4"
)

type recordWash struct {
	CustomerID string        `param:"id" validate:"required,uuid"`
	WashTypeID string        `json:"wash_type_id" validate:"required,uuid"`
	CarSize    model.CarSize `json:"car_size" validate:"required,car_size"`
	VehicleID  *string       `json:"vehicle_id" validate:"omitempty,uuid"`
	Free       bool          `json:"free"`
}

// WashHTTPHandler is http handler for wash endpoint
type WashHTTPHandler struct {
	washSvc service.WashService
}

// NewWashHTTPHandler builds new WashHTTPHandler
func NewWashHTTPHandler(washSvc service.WashService) *WashHTTPHandler {
	return &WashHTTPHandler{washSvc: washSvc}
}

// Record records wash
// @Summary     Record wash
// @Description Records paid wash or redeems free one, price is taken from catalog
// @Tags        washes
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id     	   path 	string 	   true "Customer guid" Format(uuid)
// @Param 		recordWash body	    recordWash true "Wash data"
// @Success     201    	   {object} model.WashReceipt
// @Failure     400    	   {object} echo.HTTPError
// @Failure     404    	   {object} echo.HTTPError
// @Failure     422    	   {object} echo.HTTPError
// @Failure     500    	   {object} echo.HTTPError
// @Router      /api/customers/{id}/washes [post]
func (h *WashHTTPHandler) Record(c echo.Context) error {
	var rw recordWash
	if err := c.Bind(&rw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&rw); err != nil {
		return err
	}

	receipt, err := h.washSvc.Record(c.Request().Context(), service.RecordWash{
		CustomerID: rw.CustomerID,
		WashTypeID: rw.WashTypeID,
		CarSize:    rw.CarSize,
		VehicleID:  rw.VehicleID,
		Free:       rw.Free,
		AddedBy:    middleware.AdminID(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, receipt)
}

// History gets wash history of customer
// @Summary     Wash history
// @Description Returns washes of customer, newest first
// @Tags        washes
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {array}  model.Wash
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id}/washes [get]
func (h *WashHTTPHandler) History(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	washes, err := h.washSvc.History(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, washes)
}

// Receipt gets wash with everything needed to print receipt
// @Summary     Wash receipt
// @Description Returns wash joined with wash type, vehicle and customer
// @Tags        washes
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Wash guid" Format(uuid)
// @Success     200    {object} model.WashReceipt
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/washes/{id} [get]
func (h *WashHTTPHandler) Receipt(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	receipt, err := h.washSvc.Receipt(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, receipt)
}
