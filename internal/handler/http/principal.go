package http

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

// resolveEmployee returns the employee a request acts for. Callers act for
// themselves unless they hold manage.
func resolveEmployee(p user.Principal, requested string, manage user.Permission) (string, error) {
	if requested == "" {
		if p.EmployeeID == nil {
			return "", user.ErrEmployeeIDRequired
		}
		return *p.EmployeeID, nil
	}
	if p.EmployeeID != nil && *p.EmployeeID == requested {
		return requested, nil
	}
	if p.Can(manage) {
		return requested, nil
	}
	return "", user.ErrInsufficientPermissions
}
