package main

import (
	"github.com/hametuha/hamephone/internal/ivr"
	"github.com/hametuha/hamephone/internal/notify"
	"github.com/hametuha/hamephone/internal/observability/metrics"
	"github.com/hametuha/hamephone/internal/telephony"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal
// modules.
//
// All provider webhooks are public: webhook authentication is out of
// scope for this service, the routes only ever emit call-control markup
// built from operator configuration.
func registerRoutes(
	r *gin.Engine,
	reg *prometheus.Registry,
	menu *ivr.Menu,
	notifier *notify.Service,
	callMetrics *metrics.CallMetrics,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	ivrHandler := telephony.IVRHandler{Menu: menu, Metrics: callMetrics}
	recHandler := telephony.RecordingStatusHandler{Notifier: notifier, Metrics: callMetrics}

	r.POST(telephony.EntryPath, ivrHandler.HandleEntry)
	r.POST(telephony.GatherPath, ivrHandler.HandleGather)
	r.POST(telephony.RecordingStatusPath, recHandler.HandleRecordingStatus)
}
