package middleware

import (
	"net/http"
	"strings"

	"github.com/sensamie/blogging-api/internal/api/httpx"
	"github.com/sensamie/blogging-api/internal/auth"
)

type AuthMiddleware struct {
	TM *auth.TokenManager
}

func NewAuthMiddleware(tm *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{TM: tm}
}

// Auth requires a valid bearer token and places the caller in the context.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteMessage(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		claims, err := m.TM.Parse(token)
		if err != nil {
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := WithUser(r.Context(), UserCtx{ID: claims.UserID, Email: claims.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
