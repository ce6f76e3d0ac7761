package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/auth"
)

// publicPaths never require credentials.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Auth rejects requests the authenticator does not accept. Public paths
// and CORS preflights pass through. WebSocket upgrades are authenticated
// like any other request.
func Auth(authenticator auth.Authenticator, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			member, err := authenticator.Authenticate(r)
			if err != nil {
				logger.Warn("authentication failed",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeAuthError(w, err)
				return
			}

			if entry, ok := r.Context().Value(logEntryKey).(*logEntry); ok {
				entry.member = member.Name
			}

			next.ServeHTTP(w, r.WithContext(auth.WithMember(r.Context(), member)))
		})
	}
}

// isPublicPath matches public paths and their sub-paths, so /health/live
// is public and /healthz is not.
func isPublicPath(path string) bool {
	if publicPaths[path] {
		return true
	}

	for p := range publicPaths {
		if strings.HasPrefix(path, p+"/") {
			return true
		}
	}

	return false
}

type authErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Basic realm="shoppinglist"`)
	case errors.Is(err, auth.ErrInvalidAPIKey):
		w.Header().Set("WWW-Authenticate", "API-Key")
	default:
		w.Header().Set("WWW-Authenticate", `Basic realm="shoppinglist", API-Key`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(authErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: err.Error(),
	})
}
