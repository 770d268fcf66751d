// Package observability wires OpenTelemetry tracing and metrics for
// hubspotkit.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "hubspot-debug", version, env)
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewDispatchMetrics(observability.Meter("hubspot"))
//
// The HubSpot dispatcher opens a hubspot.request span per call and records
// DispatchMetrics when configured with them.
package observability
