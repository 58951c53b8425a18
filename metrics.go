package main

import "github.com/prometheus/client_golang/prometheus"

var (
	usersCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roster_users_created_total",
			Help: "Total number of users created through the API.",
		},
	)
	researchCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roster_research_created_total",
			Help: "Total number of research entries created through the API.",
		},
	)
	warehouseErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_warehouse_errors_total",
			Help: "Failed warehouse operations by API operation.",
		},
		[]string{"operation"},
	)
	snapshotsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roster_snapshots_total",
			Help: "Total number of table snapshots written to object storage.",
		},
	)
)

func init() {
	prometheus.MustRegister(usersCreatedCounter, researchCreatedCounter, warehouseErrorsCounter, snapshotsCounter)
}
