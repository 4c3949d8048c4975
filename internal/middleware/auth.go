package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/zhouzirui/lingua-channel/internal/telemetry"
	"github.com/zhouzirui/lingua-channel/pkg/utils"
)

// AuthScheme prefixes the shared secret in the Authorization header.
const AuthScheme = "authkey "

// Authorized reports whether the request carries exactly "authkey <secret>".
func Authorized(r *http.Request, secret string) bool {
	values := r.Header.Values("Authorization")
	if len(values) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(values[0]), []byte(AuthScheme+secret)) == 1
}

// RequireAuthKey rejects requests without the channel credential before any
// handler work runs.
func RequireAuthKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorized(r, secret) {
				telemetry.RecordAuthFailure()
				utils.RespondText(w, http.StatusBadRequest, "Invalid authorization")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
