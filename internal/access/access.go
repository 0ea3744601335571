// Package access implements the tenant visibility rule and the per
// entity capability table consulted by the admin console surface.
package access

import "gorm.io/gorm"

// Caller is the authenticated principal for one request. It is built
// from the session by middleware, passed down explicitly, and discarded
// when the request ends.
type Caller struct {
	AdminID        uint64
	EmployeeID     uint64
	OrganizationID uint64
	Superuser      bool
}

// Entity names tenant-scoped tables for capability lookups.
type Entity string

const (
	EntityOrganization Entity = "organizations"
	EntityEmployee     Entity = "employees"
	EntityQuestion     Entity = "questions"
	EntitySurvey       Entity = "surveys"
	EntityResponse     Entity = "responses"
)

// Capability lists which admin console operations an entity permits.
type Capability struct {
	Create bool
	Read   bool
	Update bool
	Delete bool
}

// capabilities is the per-entity operation table. Responses are
// read-only from the console: rows are created only by employee
// submissions and never deleted in normal operation.
var capabilities = map[Entity]Capability{
	EntityOrganization: {Create: true, Read: true, Update: true, Delete: true},
	EntityEmployee:     {Create: true, Read: true, Update: true, Delete: true},
	EntityQuestion:     {Create: true, Read: true, Update: true, Delete: true},
	EntitySurvey:       {Create: true, Read: true, Update: true, Delete: true},
	EntityResponse:     {Read: true},
}

// Can reports whether the console permits an operation on an entity.
func Can(entity Entity, op func(Capability) bool) bool {
	c, ok := capabilities[entity]
	if !ok {
		return false
	}
	return op(c)
}

// Operation selectors for Can.
func OpCreate(c Capability) bool { return c.Create }
func OpRead(c Capability) bool   { return c.Read }
func OpUpdate(c Capability) bool { return c.Update }
func OpDelete(c Capability) bool { return c.Delete }

// Scope returns the tenant visibility predicate for an entity as a GORM
// scope. Superusers see every row. Everyone else sees only rows of
// their own, non-archived organization. For the organizations table the
// archival rule applies to the row itself.
func Scope(entity Entity, caller Caller) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if caller.Superuser {
			return db
		}
		if entity == EntityOrganization {
			return db.Where("organizations.id = ? AND organizations.archived = ?", caller.OrganizationID, false)
		}
		return db.
			Joins("JOIN organizations ON organizations.id = "+string(entity)+".organization_id").
			Where(string(entity)+".organization_id = ? AND organizations.archived = ?", caller.OrganizationID, false)
	}
}

// ForceOrganization returns the organization a write must carry:
// superusers may address any organization, everyone else writes into
// their own regardless of what the client supplied. A zero result
// means no target could be resolved and callers must reject the write.
func ForceOrganization(caller Caller, requested uint64) uint64 {
	if caller.Superuser && requested != 0 {
		return requested
	}
	return caller.OrganizationID
}
