package constants

// Role set is closed: every user is exactly one of these.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var AllowedRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether the role bypasses learner access gates.
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleTeacher
}
