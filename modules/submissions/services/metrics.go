package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_received_total",
		Help: "Total number of accepted public form submissions broken down by kind.",
	}, []string{"kind"})

	submissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_rejected_total",
		Help: "Total number of rejected public form submissions broken down by kind and reason.",
	}, []string{"kind", "reason"})
)
