package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BlogsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blogs_created_total",
			Help: "Total blogs created",
		},
	)
	BlogReadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_reads_total",
			Help: "Total public blog reads (read_count increments)",
		},
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current audit worker queue depth",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(BlogsCreatedTotal)
	prometheus.MustRegister(BlogReadsTotal)
	prometheus.MustRegister(WorkerQueueDepth)
}
