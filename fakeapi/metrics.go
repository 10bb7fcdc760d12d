package fakeapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodwatch_fakeapi_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "code"})

	monitorStartsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vodwatch_fakeapi_monitor_starts_total",
		Help: "Total accepted monitor start commands",
	})

	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vodwatch_fakeapi_searches_total",
		Help: "Total clip searches by outcome",
	}, []string{"outcome"})

	activeMonitor = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vodwatch_fakeapi_monitor_active",
		Help: "1 while a simulated monitor is running",
	})
)
