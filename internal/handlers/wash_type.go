package handlers

import (
	"net/http"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type newWashType struct {
	Name           string          `json:"name" validate:"required,max=100"`
	Description    string          `json:"description" validate:"max=500"`
	PriceSmallCar  decimal.Decimal `json:"price_small_car"`
	PriceBakkieSUV decimal.Decimal `json:"price_bakkie_suv"`
}

type updateWashType struct {
	ID string `param:"id" validate:"required,uuid"`
	newWashType
}

// WashTypeHTTPHandler is http handler for wash type catalog
type WashTypeHTTPHandler struct {
	washTypeSvc service.WashTypeService
}

// NewWashTypeHTTPHandler builds new WashTypeHTTPHandler
func NewWashTypeHTTPHandler(washTypeSvc service.WashTypeService) *WashTypeHTTPHandler {
	return &WashTypeHTTPHandler{washTypeSvc: washTypeSvc}
}

// GetAll gets catalog
// @Summary     Get all wash types
// @Description Returns catalog ordered by small car price
// @Tags        wash-types
// @Produce     json
// @Success     200    {array}  model.WashType
// @Failure     500    {object} echo.HTTPError
// @Router      /api/wash-types [get]
func (h *WashTypeHTTPHandler) GetAll(c echo.Context) error {
	washTypes, err := h.washTypeSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, washTypes)
}

// Get gets wash type by id
// @Summary     Get wash type
// @Tags        wash-types
// @Produce     json
// @Param       id     path 	string true "Wash type guid" Format(uuid)
// @Success     200    {object} model.WashType
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/wash-types/{id} [get]
func (h *WashTypeHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	washType, err := h.washTypeSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, washType)
}

// Post creates wash type
// @Summary     New wash type
// @Description Adds catalog entry, both prices must be positive
// @Tags        wash-types
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param 		newWashType body	 newWashType true "Catalog entry"
// @Success     201    		{object} model.WashType
// @Failure     400    		{object} echo.HTTPError
// @Failure     422    		{object} echo.HTTPError
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/wash-types [post]
func (h *WashTypeHTTPHandler) Post(c echo.Context) error {
	var nwt newWashType
	if err := c.Bind(&nwt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nwt); err != nil {
		return err
	}

	washType, err := h.washTypeSvc.Create(c.Request().Context(), &model.WashType{
		Name:           nwt.Name,
		Description:    nwt.Description,
		PriceSmallCar:  nwt.PriceSmallCar,
		PriceBakkieSUV: nwt.PriceBakkieSUV,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, washType)
}

// Put updates wash type
// @Summary     Update wash type
// @Description Updates catalog entry, already recorded washes keep their price
// @Tags        wash-types
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id     		   path 	string 		   true "Wash type guid" Format(uuid)
// @Param 		updateWashType body	    updateWashType true "Catalog entry"
// @Success     200    		   {object} model.WashType
// @Failure     400    		   {object} echo.HTTPError
// @Failure     404    		   {object} echo.HTTPError
// @Failure     422    		   {object} echo.HTTPError
// @Failure     500    		   {object} echo.HTTPError
// @Router      /api/wash-types/{id} [put]
func (h *WashTypeHTTPHandler) Put(c echo.Context) error {
	var uwt updateWashType
	if err := c.Bind(&uwt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uwt); err != nil {
		return err
	}

	washType, err := h.washTypeSvc.Update(c.Request().Context(), &model.WashType{
		ID:             uwt.ID,
		Name:           uwt.Name,
		Description:    uwt.Description,
		PriceSmallCar:  uwt.PriceSmallCar,
		PriceBakkieSUV: uwt.PriceBakkieSUV,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, washType)
}

// DeleteByID deletes wash type
// @Summary     Delete wash type
// @Description Deletes catalog entry which is not referenced by any wash
// @Tags        wash-types
// @Security	ApiKeyAuth
// @Param       id     path 	string true "Wash type guid" Format(uuid)
// @Success     204    "Successful status code"
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     422    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/wash-types/{id} [delete]
func (h *WashTypeHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.washTypeSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
