package rbac

import (
	"log/slog"
	"net/http"

	"github.com/bpohub/workforce/internal"
)

// Gate wraps handlers with a module/action permission check. Resolution runs
// before the handler; a denied check reveals nothing about the target beyond
// the 403.
type Gate struct {
	resolver *Resolver
	logger   *slog.Logger
}

func NewGate(resolver *Resolver, logger *slog.Logger) *Gate {
	return &Gate{resolver: resolver, logger: logger}
}

func (g *Gate) Check(next http.HandlerFunc, module string, action Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := internal.UserFromContext(r.Context())
		if !ok || user == nil {
			g.logger.Warn("authorization check failed: user not found in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		subject := Subject{UserID: user.ID, RoleID: user.RoleID, IsActive: user.IsActive}

		allowed, err := g.resolver.Resolve(subject, module, action)
		if err != nil {
			if appErr, isApp := internal.IsAppError(err); isApp && appErr.Type == internal.ErrorTypeValidation {
				g.logger.ErrorContext(r.Context(), "authorization check misconfigured",
					"error", err, "module", module, "action", action)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			g.logger.ErrorContext(r.Context(), "authorization check failed",
				"error", err, "user_id", user.ID, "module", module, "action", action)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if !allowed {
			g.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", user.ID,
				"module", module,
				"action", action)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Require builds chi-compatible middleware gating a route subtree on one
// module/action pair.
func (g *Gate) Require(module string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Check(next.ServeHTTP, module, action)
	}
}
