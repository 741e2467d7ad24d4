package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mochitomo/mochitomo/internal/ctxkeys"
)

// SecurityHeaders sets CSP and the usual hardening headers. Scripts run only
// from /assets or with the request nonce. Must run after NonceMiddleware.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(GetNonce(r.Context())))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(nonce string) string {
	script := "'self'"
	if nonce != "" {
		script += fmt.Sprintf(" 'nonce-%s'", nonce)
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + script,
		"style-src 'self'",
		"img-src 'self' data:",
		"connect-src 'self'", // htmx requests and the result event stream
		"form-action 'self'",
		"base-uri 'self'",
		"frame-ancestors 'none'",
		"object-src 'none'",
	}
	return strings.Join(directives, "; ")
}
