package constants

import "time"

// Session and context keys
const (
	SessionCookieName     = "event_session"
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
	ContextKeyLogger      = "logger"
	ContextKeyCSRFToken   = "csrf_token"
	HeaderTraceID         = "X-Trace-Id"
)

// CSRF tokens live in the session and come back in a form field or header.
const (
	SessionKeyCSRFToken = "csrf_token"
	FormFieldCSRFToken  = "csrf_token"
	HeaderCSRFToken     = "X-CSRF-Token"
	CSRFTokenBytes      = 32
)

// Account rules
const (
	MinPasswordLength = 8
	MaxUsernameLength = 150
	MaxNameLength     = 30
)

// Event defaults
const (
	DefaultEventImage = "default_event.jpg"
	EventImageFolder  = "event_images"
	MaxSlugLength     = 50
	EventDateLayout   = "2006-01-02T15:04"
	MaxImageSize      = 10 << 20
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Activation tokens and outbound mail
const (
	DefaultActivationTTL = 72 * time.Hour
	MailSendTimeout      = 15 * time.Second
)

// Routes used for redirects
const (
	RouteLogin                = "/login/"
	RouteEventList            = "/"
	RouteAdminDashboard       = "/dashboard/admin/"
	RouteOrganizerDashboard   = "/dashboard/organizer/"
	RouteParticipantDashboard = "/dashboard/participant/"
)
