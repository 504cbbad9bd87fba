package model

import "time"

// Vehicle is a car registered for customer
type Vehicle struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Make         *string   `json:"make"`
	Model        *string   `json:"model"`
	Year         *int      `json:"year"`
	Color        *string   `json:"color"`
	Registration string    `json:"registration"`
	IsPrimary    bool      `json:"is_primary"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (v Vehicle) Key() string {
	return v.ID
}
