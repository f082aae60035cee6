package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glfetch",
		Name:      "requests_total",
		Help:      "Requests dispatched, by method and resource tag.",
	}, []string{"method", "resource"})

	failuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glfetch",
		Name:      "failures_total",
		Help:      "Failed requests, by error kind.",
	}, []string{"kind"})

	requestSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "glfetch",
		Name:      "request_duration_seconds",
		Help:      "Wall time from dispatch to callback delivery.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.DefaultRegisterer.MustRegister(requestsTotal, failuresTotal, requestSeconds)
}
