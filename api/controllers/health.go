package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/busline-io/busline-backend/api/responses"
	"github.com/busline-io/busline-backend/pkg/config"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/logger"
)

// ReadinessCheck reports whether one downstream dependency is reachable.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Busline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes each dependency with a short deadline. Any failure
// makes the whole endpoint report unavailable.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Busline-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := map[string]string{"status": "ready"}
		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			if err := check.Check(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.Name+" unavailable"))
				return
			}
			status[check.Name] = "ok"
		}

		responses.WriteSuccess(w, status)
	}
}
