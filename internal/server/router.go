package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/access"
	"github.com/yukikurage/event-rsvp/internal/config"
	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/handlers"
	"github.com/yukikurage/event-rsvp/internal/mailer"
	"github.com/yukikurage/event-rsvp/internal/middleware"
	"github.com/yukikurage/event-rsvp/internal/repository"
	"github.com/yukikurage/event-rsvp/internal/services"
	"github.com/yukikurage/event-rsvp/internal/storage"
	"github.com/yukikurage/event-rsvp/internal/token"
	"github.com/yukikurage/event-rsvp/internal/web"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Config       *config.Config
	DB           *gorm.DB
	Logger       *zap.Logger
	SessionStore sessions.Store
	Images       storage.ImageStore
	Notifier     services.Notifier
	Activator    token.Activator
}

// withDefaults builds the mail notifier and the JWT activator from Config when they are not set.
func (d *Dependencies) withDefaults() {
	if d.Notifier == nil {
		d.Notifier = mailer.NewNotifier(mailer.New(d.Config.Mail, d.Logger), d.Logger, d.Config.BaseURL)
	}
	if d.Activator == nil {
		d.Activator = token.NewJWTActivator(d.Config.TokenSecret, d.Config.ActivationTTL, nil)
	}
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	deps.withDefaults()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	userRepo := repository.NewUserRepository(deps.DB)
	groupRepo := repository.NewGroupRepository(deps.DB)
	eventRepo := repository.NewEventRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Activator, deps.Notifier)
	eventService := services.NewEventService(eventRepo, deps.Images, deps.Notifier)
	adminService := services.NewAdminService(userRepo, groupRepo)
	dashboardService := services.NewDashboardService(eventRepo, userRepo, groupRepo)

	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, eventService.ImageURL)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = constants.MaxImageSize

	r.Use(middleware.Trace(deps.Logger), middleware.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", healthHandler.Health)

	if local, ok := deps.Images.(*storage.LocalStore); ok {
		r.StaticFS(deps.Config.Storage.MediaURL, http.Dir(local.Dir()))
	}

	site := r.Group("/")
	site.Use(
		sessions.Sessions(constants.SessionCookieName, deps.SessionStore),
		middleware.CSRF(),
		middleware.LoadCurrentUser(authService),
	)
	{
		site.GET("/", eventHandler.ListEvents)

		site.GET("/signup/", authHandler.SignupPage)
		site.POST("/signup/", authHandler.Signup)
		site.GET("/login/", authHandler.LoginPage)
		site.POST("/login/", authHandler.Login)
		site.GET("/logout/", authHandler.Logout)
		site.GET("/activate/:uid/:token/", authHandler.Activate)

		dash := site.Group("/dashboard")
		{
			dash.GET("/admin/", middleware.RequirePermission(access.OpAdminDashboard), dashboardHandler.Admin)
			dash.GET("/organizer/", middleware.RequirePermission(access.OpOrganizerDashboard), dashboardHandler.Organizer)
			dash.GET("/participant/", middleware.RequirePermission(access.OpParticipantDashboard), dashboardHandler.Participant)

			changeRole := middleware.RequirePermission(access.OpChangeUserRole)
			manageGroups := middleware.RequirePermission(access.OpManageGroups)
			deleteParticipant := middleware.RequirePermission(access.OpDeleteParticipant)

			dash.GET("/admin/change_role/:id/", changeRole, adminHandler.ChangeRolePage)
			dash.POST("/admin/change_role/:id/", changeRole, adminHandler.ChangeRole)
			dash.GET("/admin/create_group/", manageGroups, adminHandler.CreateGroupPage)
			dash.POST("/admin/create_group/", manageGroups, adminHandler.CreateGroup)
			dash.GET("/admin/delete_group/:id/", manageGroups, adminHandler.ConfirmDeleteGroup)
			dash.POST("/admin/delete_group/:id/", manageGroups, adminHandler.DeleteGroup)
			dash.GET("/admin/delete_participant/:id/", deleteParticipant, adminHandler.ConfirmDeleteParticipant)
			dash.POST("/admin/delete_participant/:id/", deleteParticipant, adminHandler.DeleteParticipant)
		}

		events := site.Group("/event")
		{
			createEvent := middleware.RequirePermission(access.OpCreateEvent)
			editEvent := middleware.RequirePermission(access.OpEditEvent)
			deleteEvent := middleware.RequirePermission(access.OpDeleteEvent)

			events.GET("/new/", createEvent, eventHandler.NewEventPage)
			events.POST("/new/", createEvent, eventHandler.CreateEvent)
			events.GET("/:id/", eventHandler.GetEvent)
			events.GET("/:id/edit/", editEvent, eventHandler.EditEventPage)
			events.POST("/:id/edit/", editEvent, eventHandler.UpdateEvent)
			events.GET("/:id/delete/", deleteEvent, eventHandler.ConfirmDeleteEvent)
			events.POST("/:id/delete/", deleteEvent, eventHandler.DeleteEvent)
			events.POST("/:id/rsvp/", middleware.RequirePermission(access.OpRSVP), eventHandler.RSVP)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Page not found")
	})

	return r, nil
}
