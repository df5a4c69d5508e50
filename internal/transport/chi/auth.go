package chi

import (
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication (banner, health, metrics).
var exemptPaths = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/metrics": {},
}

// Telephone webhooks cannot carry a bearer token.
const exemptPrefix = "/voice/"

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled, pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isExempt(path string) bool {
	if _, ok := exemptPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, exemptPrefix)
}
