/*
Package observability turns engine lifecycle hooks into Prometheus metrics
and structured log lines.

Hooks from several sources combine with Chain, so a host can count and log
the same events.
*/
package observability
