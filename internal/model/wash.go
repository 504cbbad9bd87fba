package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarSize is price tier of the wash
type CarSize string

const (
	// CarSizeSmall is tier for small cars
	CarSizeSmall CarSize = "small"
	// CarSizeBakkieSUV is tier for bakkies and SUVs
	CarSizeBakkieSUV CarSize = "bakkie_suv"
)

// Valid checks that car size is one of known tiers
func (s CarSize) Valid() bool {
	return s == CarSizeSmall || s == CarSizeBakkieSUV
}

// WashType is catalog entry with price per car size
type WashType struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	PriceSmallCar  decimal.Decimal `json:"price_small_car"`
	PriceBakkieSUV decimal.Decimal `json:"price_bakkie_suv"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (w WashType) Key() string {
	return w.ID
}

// PriceFor returns catalog price for the tier, second value is false for unknown tier
func (w WashType) PriceFor(size CarSize) (decimal.Decimal, bool) {
	switch size {
	case CarSizeSmall:
		return w.PriceSmallCar, true
	case CarSizeBakkieSUV:
		return w.PriceBakkieSUV, true
	default:
		return decimal.Zero, false
	}
}

// PricesPositive checks catalog invariant for both tiers
func (w WashType) PricesPositive() bool {
	return w.PriceSmallCar.IsPositive() && w.PriceBakkieSUV.IsPositive()
}

// Wash is immutable record of performed wash, Price is frozen at the moment of recording
type Wash struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	WashTypeID  string          `json:"wash_type_id"`
	CarType     CarSize         `json:"car_type"`
	Price       decimal.Decimal `json:"price"`
	WasFree     bool            `json:"was_free"`
	VehicleID   *string         `json:"vehicle_id"`
	PerformedAt time.Time       `json:"performed_at"`
	AddedBy     *string         `json:"added_by"`
	CreatedAt   time.Time       `json:"created_at"`
	WashType    *WashType       `json:"wash_type,omitempty"`
	Vehicle     *Vehicle        `json:"vehicle,omitempty"`
}

func (w Wash) Key() string {
	return w.ID
}

// WashReceipt is everything needed to render a receipt without another lookup
type WashReceipt struct {
	Wash     *Wash     `json:"wash"`
	Customer *Customer `json:"customer"`
}
