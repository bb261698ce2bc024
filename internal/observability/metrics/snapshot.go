package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Snapshot is the admin-facing summary of the scheduler counters.
type Snapshot struct {
	MessagesByIntent  map[string]uint64 `json:"messages_by_intent"`
	MessagesByOutcome map[string]uint64 `json:"messages_by_outcome"`
	Booked            uint64            `json:"booked"`
	FailedRequests    uint64            `json:"failed_requests"`
	RepliesSent       uint64            `json:"replies_sent"`
	RepliesFailed     uint64            `json:"replies_failed"`
}

// Collect reads the current counter values from a gatherer. Passing nil uses
// the default registry.
func Collect(gatherer prometheus.Gatherer) Snapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	snap := Snapshot{
		MessagesByIntent:  map[string]uint64{},
		MessagesByOutcome: map[string]uint64{},
	}

	mfs, err := gatherer.Gather()
	if err != nil {
		return snap
	}

	for _, mf := range mfs {
		if mf == nil {
			continue
		}
		switch mf.GetName() {
		case "clinic_scheduler_messages_total":
			for _, metric := range mf.Metric {
				count := counterValue(metric)
				snap.MessagesByIntent[labelValue(metric, "intent")] += count
				snap.MessagesByOutcome[labelValue(metric, "outcome")] += count
			}
		case "clinic_scheduler_booking_attempts_total":
			for _, metric := range mf.Metric {
				switch labelValue(metric, "result") {
				case "booked":
					snap.Booked += counterValue(metric)
				default:
					snap.FailedRequests += counterValue(metric)
				}
			}
		case "clinic_scheduler_replies_total":
			for _, metric := range mf.Metric {
				if labelValue(metric, "status") == "sent" {
					snap.RepliesSent += counterValue(metric)
				} else {
					snap.RepliesFailed += counterValue(metric)
				}
			}
		}
	}
	return snap
}

func counterValue(metric *dto.Metric) uint64 {
	if metric == nil || metric.GetCounter() == nil {
		return 0
	}
	return uint64(metric.GetCounter().GetValue())
}

func labelValue(metric *dto.Metric, name string) string {
	if metric == nil {
		return ""
	}
	for _, lp := range metric.Label {
		if lp != nil && lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
