// Package metrics exports client activity as Prometheus metrics.
//
//	obs, err := metrics.NewObserver(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	c, err := client.New(client.WithObserver(obs))
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/expopush/pkg/client"
	"github.com/bft-labs/expopush/pkg/push"
)

const namespace = "expopush"

// Observer is a client.Observer that records Prometheus metrics.
type Observer struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestBytes    *prometheus.HistogramVec
	tickets         *prometheus.CounterVec
	receipts        *prometheus.CounterVec
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Exchanges with the push service by operation and outcome",
		}, []string{"operation", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Round trip time of exchanges with the push service",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		requestBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_body_bytes",
			Help:      "Request body size as sent",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 7),
		}, []string{"operation", "compressed"}),
		tickets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_total",
			Help:      "Push tickets by status and error kind",
		}, []string{"status", "error"}),
		receipts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_total",
			Help:      "Push receipts by status and error kind",
		}, []string{"status", "error"}),
	}

	for _, c := range []prometheus.Collector{o.requests, o.requestDuration, o.requestBytes, o.tickets, o.receipts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnRequest records the outcome, latency and body size of an exchange.
func (o *Observer) OnRequest(e client.RequestEvent) {
	op := string(e.Operation)
	outcome := "ok"
	if e.Err != nil {
		outcome = strings.ToLower(push.Classify(e.Err).String())
	}
	o.requests.WithLabelValues(op, outcome).Inc()
	o.requestDuration.WithLabelValues(op).Observe(e.Duration.Seconds())
	compressed := "false"
	if e.Compressed {
		compressed = "true"
	}
	o.requestBytes.WithLabelValues(op, compressed).Observe(float64(e.BodyBytes))
}

// OnTickets counts tickets.
func (o *Observer) OnTickets(tickets []push.Ticket) {
	for _, t := range tickets {
		o.tickets.WithLabelValues(string(t.Status), errorLabel(t.Details)).Inc()
	}
}

// OnReceipts counts receipts.
func (o *Observer) OnReceipts(receipts map[push.ReceiptID]push.Receipt) {
	for _, r := range receipts {
		o.receipts.WithLabelValues(string(r.Status), errorLabel(r.Details)).Inc()
	}
}

// errorLabel keeps label cardinality bounded: kinds outside the documented
// vocabulary are folded into "other".
func errorLabel(d *push.Details) string {
	switch {
	case d == nil || d.Error == "":
		return ""
	case d.Error.Known():
		return string(d.Error)
	default:
		return "other"
	}
}

var _ client.Observer = (*Observer)(nil)
