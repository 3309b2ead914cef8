package metrics

import (
	"time"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultStale   = "stale"
)

// EmitDecision counts one guard decision.
func EmitDecision(sink statsd.Sink, d access.Decision) {
	if sink == nil {
		return
	}
	sink.Count("access.decision", 1, map[string]string{
		"kind":   string(d.Kind),
		"reason": string(d.Reason),
	})
}

// ResolutionMetric captures one durable role lookup.
type ResolutionMetric struct {
	Source   domainauth.RoleSource
	Result   string
	Duration time.Duration
}

// EmitResolution records a durable role lookup outcome and its latency.
func EmitResolution(sink statsd.Sink, in ResolutionMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": in.Result}
	if in.Source != "" {
		tags["source"] = string(in.Source)
	}
	sink.Count("role.resolve", 1, tags)
	if in.Duration > 0 {
		sink.Timing("role.resolve.duration", in.Duration, tags)
	}
}
