package usecase

import (
	"context"
	"time"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	checks map[string]Check
}

func NewHealthUsecase(checks map[string]Check) HealthUsecase {
	return &healthUsecase{checks: checks}
}

// Check runs every probe with a short timeout. ok is false if any probe failed.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	ok := true
	for name, check := range u.checks {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(cctx)
		cancel()
		if err != nil {
			status[name] = "unavailable"
			ok = false
			continue
		}
		status[name] = "ok"
	}
	if !ok {
		status["status"] = "degraded"
	}
	return status, ok
}
