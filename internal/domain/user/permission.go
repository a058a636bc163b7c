package user

type Permission string

const (
	// Attendance
	PermissionAttendanceCreate Permission = "attendance.create"
	PermissionAttendanceManage Permission = "attendance.manage"

	// Leave
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveApprove Permission = "leave.approve"

	// Work sessions
	PermissionSessionCreate  Permission = "session.create"
	PermissionSessionApprove Permission = "session.approve"

	// Payroll
	PermissionPayrollReconcile Permission = "payroll.reconcile"
	PermissionPayrollView      Permission = "payroll.view"
	PermissionPayrollCompose   Permission = "payroll.compose"
	PermissionPayrollFinalize  Permission = "payroll.finalize"

	// Payment
	PermissionPaymentRecord  Permission = "payment.record"
	PermissionPaymentApprove Permission = "payment.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceCreate,
		PermissionAttendanceManage,
		PermissionLeaveCreate,
		PermissionLeaveApprove,
		PermissionSessionCreate,
		PermissionSessionApprove,
		PermissionPayrollReconcile,
		PermissionPayrollView,
		PermissionPayrollCompose,
		PermissionPayrollFinalize,
		PermissionPaymentRecord,
		PermissionPaymentApprove,
	},
	RoleManager: {
		PermissionAttendanceCreate,
		PermissionAttendanceManage,
		PermissionLeaveCreate,
		PermissionLeaveApprove,
		PermissionSessionCreate,
		PermissionSessionApprove,
		PermissionPayrollReconcile,
		PermissionPayrollView,
		PermissionPayrollCompose,
		PermissionPaymentRecord,
	},
	RoleEmployee: {
		PermissionAttendanceCreate,
		PermissionLeaveCreate,
		PermissionSessionCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
