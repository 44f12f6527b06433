// Package instrument connects properties and bindings to Prometheus and
// OpenTelemetry.
//
// Metrics implements both property.Monitor and binding.PropagationMonitor
// and exports:
//
//   - props_notifications_total{kind}: notification rounds that reached a listener
//   - props_listener_faults_total{kind}: recovered listener panics
//   - props_listeners_per_notification: listeners reached per round
//   - props_propagations_total: binding recomputes
//   - props_propagations_dropped_total: recomputes dropped by the depth bound
//   - props_propagation_duration_seconds: recompute duration
//   - props_active_bindings: bindings created and not yet disposed
//
// Tracer opens one span per binding recompute. Nested recomputes become
// child spans, notifications and listener faults are recorded as span
// events on the innermost span.
//
// Install wires any number of monitors into both packages:
//
//	m := instrument.Prometheus(instrument.WithNamespace("myapp"))
//	t := instrument.NewTracer()
//	instrument.Install(m, t)
//	http.Handle("/metrics", promhttp.Handler())
package instrument
