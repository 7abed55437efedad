package multisig

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the operations processed by a Manager. Counters are
// usable without being registered, so a manager always records them.
type Metrics struct {
	proposals  prometheus.Counter
	approvals  prometheus.Counter
	executions *prometheus.CounterVec
}

// NewMetrics returns a fresh set of counters.
func NewMetrics() *Metrics {
	return &Metrics{
		proposals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "treasury",
			Subsystem: "multisig",
			Name:      "proposals_total",
			Help:      "Number of transfer proposals created.",
		}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "treasury",
			Subsystem: "multisig",
			Name:      "approvals_total",
			Help:      "Number of approvals added to proposals.",
		}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "treasury",
			Subsystem: "multisig",
			Name:      "executions_total",
			Help:      "Number of execution attempts by result.",
		}, []string{"result"}),
	}
}

// Register adds all counters to given registry.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.proposals, m.approvals, m.executions} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) proposed() {
	m.proposals.Inc()
}

func (m *Metrics) approved() {
	m.approvals.Inc()
}

// executed records the outcome of an execution attempt. Rejected attempts
// are labeled with the error kind.
func (m *Metrics) executed(err error) {
	m.executions.WithLabelValues(resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case ErrTransferFailed.Is(err):
		return "transfer_failed"
	case ErrInsufficientApprovals.Is(err):
		return "insufficient_approvals"
	case ErrAlreadyExecuted.Is(err):
		return "already_executed"
	default:
		return "rejected"
	}
}
