package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/rbac"
	"github.com/bpohub/workforce/internal/transport"
	"github.com/bpohub/workforce/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Modules ModuleProvider
}

func NewHandler(svc ServiceAPI, modules ModuleProvider) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		Modules:     modules,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case ErrUserInactive:
			h.HandleServiceError(w, internal.NewForbiddenError("user is inactive", internal.ErrCodeUserInactive))
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)

		switch err {
		case ErrInvalidToken:
			h.HandleServiceError(w, internal.NewUnauthorizedError("invalid refresh token", internal.ErrCodeInvalidToken))
		case ErrTokenExpired:
			h.HandleServiceError(w, internal.NewUnauthorizedError("refresh token expired", internal.ErrCodeTokenExpired))
		case ErrUserInactive:
			h.HandleServiceError(w, internal.NewForbiddenError("user is inactive", internal.ErrCodeUserInactive))
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	// Stateless JWTs: logout is client-side token disposal.
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller's profile together with the modules they can access.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	modules, err := h.Modules.AccessibleModules(rbac.Subject{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		IsActive: user.IsActive,
	})
	if err != nil {
		h.Logger.Error("Me: failed to resolve accessible modules", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"modules": modules,
	})
}

// AuthMiddleware validates the bearer token and loads the session user into
// the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			if errors.Is(err, ErrTokenExpired) {
				h.HandleServiceError(w, internal.NewUnauthorizedError("token expired", internal.ErrCodeTokenExpired))
			} else {
				h.HandleServiceError(w, internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken))
			}
			return
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			h.Logger.Warn("malformed user id in token claims", "value", claims.UserID)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := h.Service.GetSessionUser(userID)
		if err != nil || user == nil {
			h.Logger.Warn("auth middleware: user lookup failed", "user_id", userID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}
		if !user.IsActive {
			h.HandleServiceError(w, internal.NewForbiddenError("user is inactive", internal.ErrCodeUserInactive))
			return
		}

		ctx := internal.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
