package bootstrap

import (
	"time"

	"github.com/kbukum/hubspotkit/component"
	"github.com/kbukum/hubspotkit/logger"
)

// logSummary logs one line per component with its description and health.
func (a *App[C]) logSummary(results []component.Health, startup time.Duration) {
	health := make(map[string]component.Health, len(results))
	for _, h := range results {
		health[h.Name] = h
	}

	for _, d := range a.Components.Describe() {
		h := health[d.Name]
		a.Logger.Info("component ready", logger.Fields(
			logger.FieldComponent, d.Name,
			"type", d.Type,
			"details", d.Details,
			"health", string(h.Status),
		))
	}
	a.Logger.Info("startup complete", logger.Fields(
		logger.FieldDuration, startup.Milliseconds(),
		"components", len(a.Components.All()),
	))
}
