package helpers

type EnhancedClaims struct {
	*CustomClaims
	Role   string `json:"role"`
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}

func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == "admin"
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return "guest"
	}
	return ec.Role
}

// RoleFromClaims picks admin when app_metadata lists it, or when the caller says
// the email is on the operator allow-list.
func RoleFromClaims(c *CustomClaims, emailIsAdmin bool) string {
	for _, r := range c.AppMetadata.Roles {
		if r == "admin" {
			return "admin"
		}
	}
	if emailIsAdmin {
		return "admin"
	}
	return "guest"
}
