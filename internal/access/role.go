package access

import "github.com/yukikurage/event-rsvp/internal/models"

// Role is the effective application role derived from superuser flag and group membership.
type Role string

const (
	RoleNone        Role = ""
	RoleAdmin       Role = models.GroupAdmin
	RoleOrganizer   Role = models.GroupOrganizer
	RoleParticipant Role = models.GroupParticipant
)

// Principal is the membership view of a user that permission checks are evaluated against.
type Principal struct {
	Authenticated bool
	IsSuperuser   bool
	groups        map[string]struct{}
}

// NewPrincipal builds a principal for an authenticated user.
func NewPrincipal(isSuperuser bool, groupNames []string) Principal {
	groups := make(map[string]struct{}, len(groupNames))
	for _, name := range groupNames {
		groups[name] = struct{}{}
	}
	return Principal{Authenticated: true, IsSuperuser: isSuperuser, groups: groups}
}

// PrincipalFor returns the principal of user; nil yields an anonymous principal.
func PrincipalFor(user *models.User) Principal {
	if user == nil {
		return Principal{}
	}
	return NewPrincipal(user.IsSuperuser, user.GroupNames())
}

// InGroup reports membership in the named group.
func (p Principal) InGroup(name string) bool {
	_, ok := p.groups[name]
	return ok
}

// Has reports whether the principal satisfies role's predicate.
// Admin is satisfied by superusers as well as Admin group members.
func (p Principal) Has(role Role) bool {
	if !p.Authenticated {
		return false
	}
	switch role {
	case RoleAdmin:
		return p.IsSuperuser || p.InGroup(models.GroupAdmin)
	case RoleOrganizer, RoleParticipant:
		return p.InGroup(string(role))
	default:
		return false
	}
}

// ResolveRole picks the highest-precedence role: Admin > Organizer > Participant > none.
func ResolveRole(isSuperuser bool, groupNames []string) Role {
	return NewPrincipal(isSuperuser, groupNames).Role()
}

// Role returns the principal's effective role.
func (p Principal) Role() Role {
	for _, r := range []Role{RoleAdmin, RoleOrganizer, RoleParticipant} {
		if p.Has(r) {
			return r
		}
	}
	return RoleNone
}
