package auth

import (
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/hr-admin/internal"
	"github.com/frahmantamala/hr-admin/internal/metrics"
	"github.com/frahmantamala/hr-admin/internal/transport"
	"github.com/go-chi/chi"
)

// NoCapability in an override removes the requirement of an endpoint.
const NoCapability = "-"

// Route is one entry of the endpoint table. Capability is the default
// requirement; an empty value means any authenticated caller.
type Route struct {
	Name       string
	Method     string
	Pattern    string
	Capability string
	Handler    http.HandlerFunc
}

// Authorize allows when capability is empty or present in permissions.
func Authorize(permissions []string, capability string) error {
	if capability == "" {
		return nil
	}
	for _, p := range permissions {
		if p == capability {
			return nil
		}
	}
	return apperrors.ErrAuthorizationDenied.WithDetails(map[string]string{"required_capability": capability})
}

// Gate enforces the capability of each route before its handler runs.
type Gate struct {
	*transport.BaseHandler
	overrides map[string]string
}

func NewGate(overrides map[string]string, logger *slog.Logger) *Gate {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &Gate{
		BaseHandler: transport.NewBaseHandler(logger),
		overrides:   overrides,
	}
}

// Capability returns the requirement in effect for route.
func (g *Gate) Capability(route Route) string {
	override, ok := g.overrides[route.Name]
	if !ok {
		return route.Capability
	}
	if override == NoCapability {
		return ""
	}
	return override
}

func (g *Gate) Enforce(route Route) http.HandlerFunc {
	capability := g.Capability(route)
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			g.Logger.WarnContext(r.Context(), "authorization check failed: no caller in context", "endpoint", route.Name)
			g.HandleServiceError(w, apperrors.ErrUnauthenticated)
			return
		}

		if err := Authorize(user.Permissions, capability); err != nil {
			metrics.AuthorizationDeniedTotal.WithLabelValues(route.Name, capability).Inc()
			g.Logger.WarnContext(r.Context(), "access denied: missing capability",
				"endpoint", route.Name,
				"user_id", user.ID,
				"required_capability", capability)
			g.HandleServiceError(w, err)
			return
		}

		route.Handler(w, r)
	}
}

// Mount registers every route on r behind the gate.
func (g *Gate) Mount(r chi.Router, routes []Route) {
	known := make(map[string]bool, len(routes))
	for _, route := range routes {
		known[route.Name] = true
		r.Method(route.Method, route.Pattern, g.Enforce(route))
		g.Logger.Debug("route mounted", "endpoint", route.Name, "method", route.Method, "pattern", route.Pattern, "capability", g.Capability(route))
	}
	for name := range g.overrides {
		if !known[name] {
			g.Logger.Warn("authorization override for unknown endpoint", "endpoint", name)
		}
	}
}
