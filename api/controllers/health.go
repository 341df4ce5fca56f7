package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/storelane/storelane-backend/api/responses"
	"github.com/storelane/storelane-backend/pkg/config"
	pkgerrors "github.com/storelane/storelane-backend/pkg/errors"
	"github.com/storelane/storelane-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is anything that can confirm a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storelane-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency and reports 503 if any fail. Nil
// pingers are skipped so optional dependencies do not block readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storelane-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs []error
		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				checks[name] = "down"
				continue
			}
			checks[name] = "up"
		}

		if combined := multierr.Combine(errs...); combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed").
				WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
