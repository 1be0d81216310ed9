package valueobject

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleTalent   Role = "talent"
	RoleEmployer Role = "employer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleTalent, RoleEmployer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Actor - аутентифицированный пользователь, от имени которого выполняется операция.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(id uuid.UUID, role string) Actor {
	return Actor{ID: id, Role: Role(role)}
}

// IsStaff: staff и admin обходят проверки владения.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}

func (a Actor) IsTalent() bool   { return a.Role == RoleTalent }
func (a Actor) IsEmployer() bool { return a.Role == RoleEmployer }

// System используется для каскадных переходов без пользователя.
var System = Actor{Role: RoleAdmin}
