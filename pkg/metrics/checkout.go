package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts order submissions and their best-effort side effects.
type CheckoutMetrics struct {
	submitted       *prometheus.CounterVec
	notifyFailures  *prometheus.CounterVec
	balanceFailures prometheus.Counter
}

// NewCheckoutMetrics registers the checkout counters on reg.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_submitted_total",
		Help:      "Accepted orders by payment method.",
	}, []string{"payment"})
	notifyFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_notify_failures_total",
		Help:      "Order notifications that failed per sink.",
	}, []string{"sink"})
	balanceFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_balance_failures_total",
		Help:      "Orders whose points adjustment failed.",
	})
	reg.MustRegister(submitted, notifyFailures, balanceFailures)
	return &CheckoutMetrics{
		submitted:       submitted,
		notifyFailures:  notifyFailures,
		balanceFailures: balanceFailures,
	}
}

func (c *CheckoutMetrics) IncSubmitted(payment string) {
	if c == nil || c.submitted == nil {
		return
	}
	c.submitted.WithLabelValues(normalizeLabel(payment)).Inc()
}

// IncNotifyFailure counts a failed delivery to the named sink.
func (c *CheckoutMetrics) IncNotifyFailure(sink string) {
	if c == nil || c.notifyFailures == nil {
		return
	}
	c.notifyFailures.WithLabelValues(normalizeLabel(sink)).Inc()
}

func (c *CheckoutMetrics) IncBalanceFailure() {
	if c == nil || c.balanceFailures == nil {
		return
	}
	c.balanceFailures.Inc()
}
