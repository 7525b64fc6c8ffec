package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/cookbook/internal/logger"
	"github.com/MrSnakeDoc/cookbook/internal/utils"
)

// AllowOnlyCIDRS answers 403 to clients outside rules, a list of IPs and
// CIDRs. An empty list disables the check. A non-empty list in which no
// rule parses denies everyone rather than silently opening the route.
func AllowOnlyCIDRS(rules []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	if len(rules) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	m := utils.NewIPMatcher(rules)
	if m.IsEmpty() {
		log.Warn("no valid entry in COOKBOOK_ALLOWED_CIDRS, denying all clients",
			logger.Int("rules", len(rules)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path),
					logger.Bool("trust_proxy", trustProxy))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
