package access

import "github.com/yukikurage/event-rsvp/internal/models"

// Operation names an action guarded by the access-control gate.
type Operation string

const (
	OpViewEvents           Operation = "view_events"
	OpCreateEvent          Operation = "create_event"
	OpEditEvent            Operation = "edit_event"
	OpDeleteEvent          Operation = "delete_event"
	OpRSVP                 Operation = "rsvp"
	OpAdminDashboard       Operation = "admin_dashboard"
	OpOrganizerDashboard   Operation = "organizer_dashboard"
	OpParticipantDashboard Operation = "participant_dashboard"
	OpChangeUserRole       Operation = "change_user_role"
	OpManageGroups         Operation = "manage_groups"
	OpDeleteParticipant    Operation = "delete_participant"
)

type rule struct {
	public  bool
	roles   []Role
	message string
}

var policy = map[Operation]rule{
	OpViewEvents:           {public: true},
	OpCreateEvent:          {roles: []Role{RoleOrganizer}, message: "You do not have organizer privileges."},
	OpEditEvent:            {roles: []Role{RoleOrganizer, RoleAdmin}, message: "You do not have permission to edit events."},
	OpDeleteEvent:          {roles: []Role{RoleOrganizer, RoleAdmin}, message: "You do not have permission to delete events."},
	OpRSVP:                 {roles: []Role{RoleParticipant}, message: "You do not have participant privileges."},
	OpAdminDashboard:       {roles: []Role{RoleAdmin}, message: "You do not have admin privileges."},
	OpOrganizerDashboard:   {roles: []Role{RoleOrganizer}, message: "You do not have organizer privileges."},
	OpParticipantDashboard: {roles: []Role{RoleParticipant}, message: "You do not have participant privileges."},
	OpChangeUserRole:       {roles: []Role{RoleAdmin}, message: "You do not have permission to change roles."},
	OpManageGroups:         {roles: []Role{RoleAdmin}, message: "You do not have permission to manage groups."},
	OpDeleteParticipant:    {roles: []Role{RoleAdmin}, message: "You do not have permission to delete participants."},
}

// Decision is the outcome of evaluating an operation for a principal.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Check evaluates op for p. Unknown operations are denied.
func Check(op Operation, p Principal) Decision {
	r, ok := policy[op]
	if !ok {
		if !p.Authenticated {
			return DenyUnauthenticated
		}
		return DenyForbidden
	}
	if r.public {
		return Allow
	}
	if !p.Authenticated {
		return DenyUnauthenticated
	}
	for _, role := range r.roles {
		if p.Has(role) {
			return Allow
		}
	}
	return DenyForbidden
}

// Allowed is Check reduced to a boolean.
func Allowed(op Operation, p Principal) bool {
	return Check(op, p) == Allow
}

// DeniedMessage is the user-visible message shown when op is forbidden.
func DeniedMessage(op Operation) string {
	if r, ok := policy[op]; ok && r.message != "" {
		return r.message
	}
	return "You do not have permission to perform this action."
}

// CanBeDeleted reports whether target may be removed through the participant deletion path.
func CanBeDeleted(target Principal) bool {
	return !target.IsSuperuser && !target.InGroup(models.GroupAdmin) && !target.InGroup(models.GroupOrganizer)
}
