package engine

import (
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// SetCurrentUser replaces the authenticated user. A nil user logs out.
// Credential matching happens at the caller; the engine trusts the user record.
type SetCurrentUser struct {
	command
	User *domain.User
}

// AddUser creates a staff user. An id is assigned when absent.
type AddUser struct {
	command
	User domain.User
}

// UpdateUser replaces an existing staff user by id
type UpdateUser struct {
	command
	User domain.User
}

// AddSupplier creates a supplier. An id is assigned when absent.
type AddSupplier struct {
	command
	Supplier domain.Supplier
}

// UpdateSupplier replaces an existing supplier by id
type UpdateSupplier struct {
	command
	Supplier domain.Supplier
}

// AddSector creates a sector. An id is assigned when absent.
type AddSector struct {
	command
	Sector domain.Sector
}

// UpdateSector renames an existing sector
type UpdateSector struct {
	command
	Sector domain.Sector
}

// DeleteSector removes a sector. Dangling references from users are not
// checked; see the roles/sectors cascade question in DESIGN.md.
type DeleteSector struct {
	command
	ID string
}

// AddRole creates a role. An id is assigned when absent.
type AddRole struct {
	command
	Role domain.Role
}

// UpdateRole renames an existing role
type UpdateRole struct {
	command
	Role domain.Role
}

// DeleteRole removes a role without checking user references
type DeleteRole struct {
	command
	ID string
}

// UpdateSettings replaces the company notification identity
type UpdateSettings struct {
	command
	Settings domain.Settings
}

func (e *Engine) applySetCurrentUser(s domain.Snapshot, c SetCurrentUser) (domain.Snapshot, error) {
	next := s.Clone()
	if c.User == nil {
		next.CurrentUser = nil
		return next, nil
	}
	u := c.User.Clone()
	next.CurrentUser = &u
	return next, nil
}

func (e *Engine) applyAddUser(s domain.Snapshot, c AddUser) (domain.Snapshot, error) {
	next := s.Clone()
	u := c.User.Clone()
	if u.ID == "" {
		u.ID = NewID("user")
	}
	next.Users = append(next.Users, u)
	return next, nil
}

func (e *Engine) applyUpdateUser(s domain.Snapshot, c UpdateUser) (domain.Snapshot, error) {
	next := s.Clone()
	for i, u := range next.Users {
		if u.ID == c.User.ID {
			next.Users[i] = c.User.Clone()
			return next, nil
		}
	}
	return s, ErrUserNotFound
}

func (e *Engine) applyAddSupplier(s domain.Snapshot, c AddSupplier) (domain.Snapshot, error) {
	next := s.Clone()
	sup := c.Supplier
	if sup.ID == "" {
		sup.ID = NewID("sup")
	}
	next.Suppliers = append(next.Suppliers, sup)
	return next, nil
}

func (e *Engine) applyUpdateSupplier(s domain.Snapshot, c UpdateSupplier) (domain.Snapshot, error) {
	next := s.Clone()
	for i, sup := range next.Suppliers {
		if sup.ID == c.Supplier.ID {
			next.Suppliers[i] = c.Supplier
			return next, nil
		}
	}
	return s, ErrSupplierNotFound
}

func (e *Engine) applyAddSector(s domain.Snapshot, c AddSector) (domain.Snapshot, error) {
	next := s.Clone()
	sec := c.Sector
	if sec.ID == "" {
		sec.ID = NewID("sec")
	}
	next.Sectors = append(next.Sectors, sec)
	return next, nil
}

func (e *Engine) applyUpdateSector(s domain.Snapshot, c UpdateSector) (domain.Snapshot, error) {
	next := s.Clone()
	for i, sec := range next.Sectors {
		if sec.ID == c.Sector.ID {
			next.Sectors[i] = c.Sector
			return next, nil
		}
	}
	return s, ErrSectorNotFound
}

func (e *Engine) applyDeleteSector(s domain.Snapshot, c DeleteSector) (domain.Snapshot, error) {
	next := s.Clone()
	for i, sec := range next.Sectors {
		if sec.ID == c.ID {
			next.Sectors = append(next.Sectors[:i], next.Sectors[i+1:]...)
			return next, nil
		}
	}
	return s, ErrSectorNotFound
}

func (e *Engine) applyAddRole(s domain.Snapshot, c AddRole) (domain.Snapshot, error) {
	next := s.Clone()
	r := c.Role
	if r.ID == "" {
		r.ID = NewID("role")
	}
	next.Roles = append(next.Roles, r)
	return next, nil
}

func (e *Engine) applyUpdateRole(s domain.Snapshot, c UpdateRole) (domain.Snapshot, error) {
	next := s.Clone()
	for i, r := range next.Roles {
		if r.ID == c.Role.ID {
			next.Roles[i] = c.Role
			return next, nil
		}
	}
	return s, ErrRoleNotFound
}

func (e *Engine) applyDeleteRole(s domain.Snapshot, c DeleteRole) (domain.Snapshot, error) {
	next := s.Clone()
	for i, r := range next.Roles {
		if r.ID == c.ID {
			next.Roles = append(next.Roles[:i], next.Roles[i+1:]...)
			return next, nil
		}
	}
	return s, ErrRoleNotFound
}

func (e *Engine) applyUpdateSettings(s domain.Snapshot, c UpdateSettings) (domain.Snapshot, error) {
	next := s.Clone()
	next.Settings = c.Settings
	return next, nil
}
