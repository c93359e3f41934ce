package domain

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when a product id does not exist in the
// snapshot. Analysis produces no partial result in that case.
var ErrProductNotFound = errors.New("product not found")

// Reasons an analysis can be short of history.
const (
	ReasonNoDemandHistory      = "no monthly demand history"
	ReasonNoDeliveredShipments = "no delivered shipments on record"
)

// InsufficientHistoryError signals that the snapshot does not contain enough
// rows to run the optimization math. It is an explicit outcome, not a silent
// zero: callers must branch on it rather than read numbers out of a result.
type InsufficientHistoryError struct {
	ProductID int64
	Reason    string
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for product %d: %s", e.ProductID, e.Reason)
}

// DataAccessError wraps an upstream query failure. The engine never retries;
// reads are idempotent, so retrying is the caller's call.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed during %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}
