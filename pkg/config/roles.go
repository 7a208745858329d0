package config

import "strings"

// ParseAdminRoleNames parses a comma-separated list of admin role names.
// Returns a slice of trimmed, non-empty role names.
// Default roles if empty: ["admin", "manager"]
func ParseAdminRoleNames(envValue string) []string {
	if envValue == "" {
		return []string{"admin", "manager"}
	}

	parts := strings.Split(envValue, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			roles = append(roles, trimmed)
		}
	}

	// Fallback to default if all values were empty
	if len(roles) == 0 {
		return []string{"admin", "manager"}
	}

	return roles
}

// IsAdminRole checks if the given role is in the list of admin roles.
// Performs case-insensitive comparison.
func IsAdminRole(role string, adminRoles []string) bool {
	roleLower := strings.ToLower(role)
	for _, adminRole := range adminRoles {
		if strings.ToLower(adminRole) == roleLower {
			return true
		}
	}
	return false
}

// HasAnyAdminRole checks if the user has any of the specified admin roles.
func HasAnyAdminRole(userRoles []string, adminRoles []string) bool {
	for _, userRole := range userRoles {
		if IsAdminRole(userRole, adminRoles) {
			return true
		}
	}
	return false
}
