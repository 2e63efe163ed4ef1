/*
Package observability turns planner lifecycle hooks into Prometheus metrics
and structured log lines.

	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks().Merge(observability.LogHooks(logger))
*/
package observability
