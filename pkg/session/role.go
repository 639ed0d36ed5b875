package session

import (
	"fmt"
	"strings"
)

// Role is the closed set of identities the system knows about.
type Role int

const (
	RoleAdmin Role = iota
	RoleStaff
	RolePrincipal
	RoleStudent
	RoleGuest
)

// ParseRole maps a stored role token to a Role, ignoring case.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "STAFF":
		return RoleStaff, nil
	case "PRINCIPAL":
		return RolePrincipal, nil
	case "STUDENT":
		return RoleStudent, nil
	case "GUEST":
		return RoleGuest, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleStaff:
		return "STAFF"
	case RolePrincipal:
		return "PRINCIPAL"
	case RoleStudent:
		return "STUDENT"
	case RoleGuest:
		return "GUEST"
	default:
		return fmt.Sprintf("ROLE(%d)", int(r))
	}
}

// Capability names one gated operation. Authorization is per operation,
// not per resource instance.
type Capability int

const (
	CapAddStudent Capability = iota
	CapUpdateStudent
	CapDeleteStudent
	CapDeleteAll
	CapDisplay
	CapSearch
	CapSort
	CapStatistics
	CapReports // export, backup, restore
	CapMaskToggle
	CapManageCredentials
	CapViewOwn
)

func (c Capability) String() string {
	names := map[Capability]string{
		CapAddStudent:        "add student",
		CapUpdateStudent:     "update student",
		CapDeleteStudent:     "delete student",
		CapDeleteAll:         "delete all records",
		CapDisplay:           "display records",
		CapSearch:            "search records",
		CapSort:              "sort records",
		CapStatistics:        "statistics",
		CapReports:           "reports and backup",
		CapMaskToggle:        "toggle file masking",
		CapManageCredentials: "manage credentials",
		CapViewOwn:           "view own record",
	}
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// capabilities is the single authorization table. Every gate goes through
// it; no role string is compared anywhere else.
var capabilities = map[Role][]Capability{
	RoleAdmin: {
		CapAddStudent, CapUpdateStudent, CapDeleteStudent, CapDeleteAll,
		CapDisplay, CapSearch, CapSort, CapStatistics, CapReports,
		CapMaskToggle, CapManageCredentials, CapViewOwn,
	},
	RoleStaff: {
		CapAddStudent, CapUpdateStudent, CapDeleteStudent,
		CapDisplay, CapSearch, CapSort, CapStatistics, CapReports,
	},
	RolePrincipal: {
		CapDisplay, CapSearch, CapStatistics, CapReports,
	},
	RoleGuest: {
		CapDisplay, CapSearch, CapReports,
	},
	RoleStudent: {
		CapViewOwn,
	},
}

// Can reports whether the role carries the capability.
func (r Role) Can(c Capability) bool {
	for _, have := range capabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}
