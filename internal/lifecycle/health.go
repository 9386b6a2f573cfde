package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AzamovUSA/debt-control/internal/health"
)

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

// Probes answers liveness unconditionally and delegates readiness to the
// registered component checks.
type Probes struct {
	checker *health.Checker
	log     *slog.Logger
}

// NewProbes creates a new Probes instance.
func NewProbes(checker *health.Checker, log *slog.Logger) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{checker: checker, log: log}
}

// Liveness reports success as long as the process is responsive.
func (p *Probes) Liveness(ctx context.Context) error {
	return nil
}

// Readiness fails when any registered component check fails.
func (p *Probes) Readiness(ctx context.Context) error {
	if p.checker == nil {
		return nil
	}

	for component, status := range p.checker.Check(ctx) {
		if status != "OK" {
			return fmt.Errorf("%s: %s", component, status)
		}
	}

	return nil
}
