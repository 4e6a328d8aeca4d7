package handler

import (
	"net/http"

	"github.com/pavelanni/edusearch/internal/i18n"
	"github.com/pavelanni/edusearch/internal/state"
)

const sessionCookieName = "edusearch_session"

// ensureSession attaches the per-user state to the request context,
// creating a fresh user (and cookie) when no valid token arrives.
func (h *Handler) ensureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var u *state.User
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			u, _ = h.users.Get(cookie.Value)
		}

		if u == nil {
			token, created, err := h.users.Create()
			if err != nil {
				h.logger.Error("failed to create user session", "error", err)
				respondError(w, http.StatusInternalServerError, "internal error")
				return
			}
			u = created
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.config.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := state.ContextWithUser(r.Context(), u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimit throttles generation endpoints per user.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := state.UserFromContext(r.Context())
		if u == nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !u.Limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, i18n.T(r.Context(), "RateLimited"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
