package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in
// app.maintenance.endpoints. Entries are either a route pattern, which blocks
// every method, or "METHOD pattern", for example
// "POST /api/v1/identity/phone/login".
func middlewareMaintenance(cfg config.Config) Middleware {
	type rule struct{ method, route string }

	var rules []rule
	if cfg != nil {
		for _, entry := range cfg.GetArray("app.maintenance.endpoints") {
			method, route, ok := strings.Cut(entry, " ")
			if !ok {
				rules = append(rules, rule{route: entry})
				continue
			}
			rules = append(rules, rule{method: strings.ToUpper(method), route: strings.TrimSpace(route)})
		}
	}

	return func(next http.Handler) http.Handler {
		if len(rules) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			for _, rl := range rules {
				if rl.route == route && (rl.method == "" || rl.method == r.Method) {
					writeJSON(w, errorResponse{Message: "Service is under maintenance"}, http.StatusServiceUnavailable)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
