package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-admin/internal/auth"
	"github.com/frahmantamala/hr-admin/internal/competence"
	"github.com/frahmantamala/hr-admin/internal/journal"
	"github.com/frahmantamala/hr-admin/internal/transport/middleware"
	"github.com/frahmantamala/hr-admin/internal/transport/swagger"
	"github.com/frahmantamala/hr-admin/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Endpoint names are the keys of authorization.endpoints overrides.
const (
	EndpointListUsers                 = "list_users"
	EndpointListManagers              = "list_managers"
	EndpointListAllUsers              = "list_all_users"
	EndpointUpdateUser                = "update_user"
	EndpointDeleteUser                = "delete_user"
	EndpointResetPassword             = "reset_password"
	EndpointUserJournal               = "user_journal"
	EndpointUserJournalSinceLastLogin = "user_journal_since_last_login"
	EndpointListCompetences           = "list_competences"
	EndpointCreateCompetence          = "create_competence"
	EndpointUpdateCompetence          = "update_competence"
	EndpointDeleteCompetence          = "delete_competence"
)

type Handlers struct {
	Auth        *auth.Handler
	Users       *user.Handler
	Journal     *journal.Handler
	Competences *competence.Handler
	Health      *HealthHandler
}

type Options struct {
	Gate           *auth.Gate
	AllowedOrigins []string
	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler
	MetricsPath    string
	OpenAPISpec    []byte
	Logger         *slog.Logger
}

// Routes is the protected endpoint table with its default capabilities.
func Routes(h Handlers) []auth.Route {
	var routes []auth.Route

	if h.Users != nil {
		routes = append(routes,
			auth.Route{Name: EndpointListUsers, Method: http.MethodGet, Pattern: "/utilisateurs", Capability: auth.PermVoir, Handler: h.Users.ListUsers},
			auth.Route{Name: EndpointListManagers, Method: http.MethodGet, Pattern: "/utilisateurs/responsables", Handler: h.Users.ListManagers},
			auth.Route{Name: EndpointListAllUsers, Method: http.MethodGet, Pattern: "/utilisateurs/all", Handler: h.Users.ListAll},
			auth.Route{Name: EndpointUpdateUser, Method: http.MethodPut, Pattern: "/utilisateurs/{id}", Capability: auth.PermEditer, Handler: h.Users.UpdateUser},
			auth.Route{Name: EndpointDeleteUser, Method: http.MethodDelete, Pattern: "/utilisateurs/{id}", Capability: auth.PermSupprimer, Handler: h.Users.DeleteUser},
			auth.Route{Name: EndpointResetPassword, Method: http.MethodPut, Pattern: "/utilisateurs/{id}/reset-password", Handler: h.Users.ResetPassword},
		)
	}

	if h.Journal != nil {
		routes = append(routes,
			auth.Route{Name: EndpointUserJournal, Method: http.MethodGet, Pattern: "/utilisateurs/{id}/journal", Handler: h.Journal.GetJournal},
			auth.Route{Name: EndpointUserJournalSinceLastLogin, Method: http.MethodGet, Pattern: "/utilisateurs/{id}/journal-last-login", Handler: h.Journal.GetJournalSinceLastLogin},
		)
	}

	if h.Competences != nil {
		routes = append(routes,
			auth.Route{Name: EndpointListCompetences, Method: http.MethodGet, Pattern: "/api/competences", Handler: h.Competences.GetCompetences},
			auth.Route{Name: EndpointCreateCompetence, Method: http.MethodPost, Pattern: "/api/competences", Handler: h.Competences.CreateCompetence},
			auth.Route{Name: EndpointUpdateCompetence, Method: http.MethodPut, Pattern: "/api/competences/{id}", Handler: h.Competences.UpdateCompetence},
			auth.Route{Name: EndpointDeleteCompetence, Method: http.MethodDelete, Pattern: "/api/competences/{id}", Handler: h.Competences.DeleteCompetence},
		)
	}

	return routes
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)

	if opts.OpenAPISpec != nil {
		router.Get(swagger.SpecPath, swagger.SpecHandler(opts.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, opts.MetricsHandler)
	}

	if h.Health != nil {
		router.Get("/health", h.Health.Health)
		router.Get("/ping", h.Health.Ping)
	}

	if h.Auth == nil {
		if opts.Logger != nil {
			opts.Logger.Warn("no auth handler configured; protected routes not mounted")
		}
		return
	}

	router.Route("/auth", func(sr chi.Router) {
		sr.Post("/login", h.Auth.Login)
		sr.Post("/refresh", h.Auth.RefreshToken)
	})

	gate := opts.Gate
	if gate == nil {
		gate = auth.NewGate(nil, opts.Logger)
	}

	router.Group(func(pr chi.Router) {
		pr.Use(h.Auth.AuthMiddleware)
		gate.Mount(pr, Routes(h))
	})
}
