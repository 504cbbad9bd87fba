package handlers

import (
	"net/http"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/service"
	"github.com/labstack/echo/v4"
)

type vehicleAttrs struct {
	Make         *string `json:"make" validate:"omitempty,max=50"`
	Model        *string `json:"model" validate:"omitempty,max=50"`
	Year         *int    `json:"year" validate:"omitempty,min=1950,max=2100"`
	Color        *string `json:"color" validate:"omitempty,max=30"`
	Registration string  `json:"registration" validate:"required,max=16"`
	IsPrimary    bool    `json:"is_primary"`
}

type newVehicle struct {
	CustomerID string `param:"id" validate:"required,uuid"`
	vehicleAttrs
}

type updateVehicle struct {
	ID string `param:"id" validate:"required,uuid"`
	vehicleAttrs
}

func (va vehicleAttrs) vehicle(id string, customerID string) *model.Vehicle {
	return &model.Vehicle{
		ID:           id,
		CustomerID:   customerID,
		Make:         va.Make,
		Model:        va.Model,
		Year:         va.Year,
		Color:        va.Color,
		Registration: va.Registration,
		IsPrimary:    va.IsPrimary,
	}
}

// VehicleHTTPHandler is http handler for vehicle endpoint
type VehicleHTTPHandler struct {
	vehicleSvc service.VehicleService
}

// NewVehicleHTTPHandler builds new VehicleHTTPHandler
func NewVehicleHTTPHandler(vehicleSvc service.VehicleService) *VehicleHTTPHandler {
	return &VehicleHTTPHandler{vehicleSvc: vehicleSvc}
}

// GetByCustomer gets vehicles of customer
// @Summary     Get customer vehicles
// @Description Returns vehicles of customer, primary first
// @Tags        vehicles
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {array}  model.Vehicle
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id}/vehicles [get]
func (h *VehicleHTTPHandler) GetByCustomer(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	vehicles, err := h.vehicleSvc.FindByCustomer(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vehicles)
}

// Post adds vehicle to customer
// @Summary     New vehicle
// @Description Adds vehicle, first vehicle of customer becomes primary
// @Tags        vehicles
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id     	   path 	string 	   true "Customer guid" Format(uuid)
// @Param 		newVehicle body	    newVehicle true "Vehicle data"
// @Success     201    	   {object} model.Vehicle
// @Failure     400    	   {object} echo.HTTPError
// @Failure     404    	   {object} echo.HTTPError
// @Failure     500    	   {object} echo.HTTPError
// @Router      /api/customers/{id}/vehicles [post]
func (h *VehicleHTTPHandler) Post(c echo.Context) error {
	var nv newVehicle
	if err := c.Bind(&nv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nv); err != nil {
		return err
	}

	vehicle, err := h.vehicleSvc.Create(c.Request().Context(), nv.vehicle("", nv.CustomerID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, vehicle)
}

// Put updates vehicle
// @Summary     Update vehicle
// @Description Updates vehicle, making it primary unsets other primary vehicle of customer
// @Tags        vehicles
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id     		  path 	   string 		 true "Vehicle guid" Format(uuid)
// @Param 		updateVehicle body	   updateVehicle true "Vehicle data"
// @Success     200    		  {object} model.Vehicle
// @Failure     400    		  {object} echo.HTTPError
// @Failure     404    		  {object} echo.HTTPError
// @Failure     500    		  {object} echo.HTTPError
// @Router      /api/vehicles/{id} [put]
func (h *VehicleHTTPHandler) Put(c echo.Context) error {
	var uv updateVehicle
	if err := c.Bind(&uv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uv); err != nil {
		return err
	}

	vehicle, err := h.vehicleSvc.Update(c.Request().Context(), uv.vehicle(uv.ID, ""))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vehicle)
}

// SetPrimary makes vehicle primary one
// @Summary     Set primary vehicle
// @Description Makes vehicle primary and unsets previous primary vehicle of the same customer
// @Tags        vehicles
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Vehicle guid" Format(uuid)
// @Success     200    {object} model.Vehicle
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/vehicles/{id}/primary [put]
func (h *VehicleHTTPHandler) SetPrimary(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	vehicle, err := h.vehicleSvc.SetPrimary(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vehicle)
}

// DeleteByID deletes vehicle
// @Summary     Delete vehicle
// @Description Deletes vehicle, recorded washes keep no reference to it
// @Tags        vehicles
// @Security	ApiKeyAuth
// @Param       id     path 	string true "Vehicle guid" Format(uuid)
// @Success     204    "Successful status code"
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/vehicles/{id} [delete]
func (h *VehicleHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.vehicleSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
