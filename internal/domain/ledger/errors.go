package ledger

import "errors"

// ErrDataUnavailable is returned by a ledger that holds no approved records
// for an employee in a period. The reconciler counts it as zero.
var ErrDataUnavailable = errors.New("no ledger data for employee in period")
