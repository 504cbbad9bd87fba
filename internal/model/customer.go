package model

import (
	"encoding/json"
	"time"
)

// FreeWashThreshold is the number of paid washes which unlocks a free one
const FreeWashThreshold = 6

// Customer is loyalty program member
type Customer struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	CarRegistration *string    `json:"car_registration"`
	WashCount       int        `json:"wash_count"`
	LastVisit       *time.Time `json:"last_visit"`
	LastRedeemedAt  *time.Time `json:"last_redeemed_at"`
	CreatedBy       *string    `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Key returns identity of the row
func (c Customer) Key() string {
	return c.ID
}

// FreeWashAvailable reports whether customer has collected enough washes to redeem a free one
func (c Customer) FreeWashAvailable() bool {
	return EligibleForFreeWash(c.WashCount)
}

// MarshalJSON adds derived free_wash flag to the stored attributes
func (c Customer) MarshalJSON() ([]byte, error) {
	type customer Customer
	return json.Marshal(&struct {
		customer
		FreeWash bool `json:"free_wash"`
	}{
		customer: customer(c),
		FreeWash: c.FreeWashAvailable(),
	})
}

// EligibleForFreeWash is the single eligibility predicate for redemption
func EligibleForFreeWash(washCount int) bool {
	return washCount >= FreeWashThreshold
}

// CustomerProfile holds customer attributes editable by admin
type CustomerProfile struct {
	Name            string
	Phone           string
	Email           string
	CarRegistration *string
}

// LedgerChange is customer state after wash count adjustment together with count before it
type LedgerChange struct {
	Before   int
	Customer *Customer
}

// EarnedFreeWash reports whether adjustment made free wash available
func (lc LedgerChange) EarnedFreeWash() bool {
	return !EligibleForFreeWash(lc.Before) && lc.Customer != nil && lc.Customer.FreeWashAvailable()
}
