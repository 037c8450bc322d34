package client

// Permission predicates over the loaded user. All of them return false
// when no user is loaded.

// HasPermission reports whether the loaded user's effective set contains
// the given permission.
func (c *Client) HasPermission(perm string) bool {
	if c.user == nil {
		return false
	}
	for _, p := range c.user.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one of the listed permissions
// is held.
func (c *Client) HasAnyPermission(perms ...string) bool {
	for _, p := range perms {
		if c.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every listed permission is held.
func (c *Client) HasAllPermissions(perms ...string) bool {
	for _, p := range perms {
		if !c.HasPermission(p) {
			return false
		}
	}
	return true
}

// IsSuperAdmin reports whether the loaded user has the super_admin role.
func (c *Client) IsSuperAdmin() bool {
	return c.user != nil && c.user.Role == "super_admin"
}

// CanAccessCompany reports whether the loaded user belongs to the given
// company. Super admins can access every company.
func (c *Client) CanAccessCompany(companyID string) bool {
	if c.user == nil {
		return false
	}
	if c.IsSuperAdmin() {
		return true
	}
	for _, company := range c.user.Companies {
		if company.ID.String() == companyID {
			return true
		}
	}
	return false
}
