package errors

import (
	"encoding/json"
	"errors"
)

// Targets of business errors, reported to the client together with message
const (
	TargetLedger   = "ledger"
	TargetCatalog  = "catalog"
	TargetVehicle  = "vehicle"
	TargetWash     = "wash"
	TargetCustomer = "customer"
)

var (
	// ErrIneligible is raised on redemption when customer has not collected enough washes
	ErrIneligible = NewBusinessErr(TargetLedger, "customer is not eligible for a free wash yet")
	// ErrAlreadyZero is raised on wash removal when there is nothing to remove
	ErrAlreadyZero = NewBusinessErr(TargetLedger, "customer wash count is already zero")
	// ErrCatalogEntryMissing is raised when requested wash type doesn't exist
	ErrCatalogEntryMissing = NewBusinessErr(TargetCatalog, "wash type doesn't exist anymore")
	// ErrWashTypeInUse is raised on delete of wash type referenced by recorded washes
	ErrWashTypeInUse = NewBusinessErr(TargetCatalog, "wash type is referenced by recorded washes and can't be deleted")
	// ErrForeignVehicle is raised when vehicle belongs to another customer
	ErrForeignVehicle = NewBusinessErr(TargetVehicle, "vehicle doesn't belong to the customer")
	// ErrPrimaryVehicleTaken is raised when another terminal has just set a primary vehicle of the customer
	ErrPrimaryVehicleTaken = NewBusinessErr(TargetVehicle, "customer already has a primary vehicle, reload vehicles and retry")
	// ErrInvalidCarSize is raised for unknown price tier
	ErrInvalidCarSize = NewBusinessErr(TargetWash, "car size must be either small or bakkie_suv")
	// ErrNonPositivePrice is raised when catalog price is zero or negative
	ErrNonPositivePrice = NewBusinessErr(TargetCatalog, "both prices must be positive")
)

// BusinessErr is user-facing precondition failure
type BusinessErr struct {
	target  string
	message string
}

func (e *BusinessErr) Error() string {
	return e.message
}

// Target returns area business error relates to
func (e *BusinessErr) Target() string {
	return e.target
}

func (e *BusinessErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Target  string `json:"target"`
		Message string `json:"message"`
	}{Target: e.target, Message: e.message})
}

func NewBusinessErr(target string, msg string) error {
	return &BusinessErr{
		target:  target,
		message: msg,
	}
}

// EntryNotFoundErr is raised when requested row doesn't exist
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

func (e *EntryNotFoundErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Message string `json:"message"`
	}{Message: e.message})
}

func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// IsNotFound reports whether any error in chain is EntryNotFoundErr
func IsNotFound(err error) bool {
	var nfErr *EntryNotFoundErr
	return errors.As(err, &nfErr)
}

// IsBusiness reports whether any error in chain is BusinessErr
func IsBusiness(err error) bool {
	var bErr *BusinessErr
	return errors.As(err, &bErr)
}
