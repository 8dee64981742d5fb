package endpoints

import (
	"net/http"
)

type UtilsEndpoints interface {
	HelloWorld(http.ResponseWriter, *http.Request) error
	Health(http.ResponseWriter, *http.Request) error
}

// HealthChecker reports whether a dependency is usable.
type HealthChecker func(r *http.Request) error

type utilsEndpoints struct {
	checks map[string]HealthChecker
}

func NewUtilsEndpoints(checks map[string]HealthChecker) UtilsEndpoints {
	return &utilsEndpoints{checks: checks}
}

func (h *utilsEndpoints) HelloWorld(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, http.StatusOK, map[string]string{"message": "Hello world"})
}

// Health answers 200 with every check reported "ok", or 503 naming the
// failing checks.
func (h *utilsEndpoints) Health(w http.ResponseWriter, r *http.Request) error {
	status := http.StatusOK
	report := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(r); err != nil {
			report[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		report[name] = "ok"
	}
	return WriteJSON(w, status, report)
}
