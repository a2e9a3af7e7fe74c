package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hookgate/internal/api"
	"hookgate/internal/config"
	"hookgate/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	srv, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	metrics.RegisterDefault()

	mux := http.NewServeMux()

	// Webhooks
	mux.HandleFunc("/webhooks/sendseven", srv.WebhookHandler)

	// Live event tails
	mux.HandleFunc("/v1/events/stream", srv.EventStreamHandler)
	mux.HandleFunc("/v1/events/ws", srv.EventsWSHandler)

	// Admin
	mux.HandleFunc("/v1/admin/deliveries", srv.DeliveriesHandler)
	mux.HandleFunc("/debug", srv.DebugHandler)

	// Health
	mux.HandleFunc("/health", srv.HealthHandler)
	mux.HandleFunc("/readyz", srv.ReadyHandler)

	// Metrics
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	if cfg.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET not set - signatures will not be verified!")
	}
	if cfg.EchoEnabled() {
		log.Println("Echo replies: ENABLED")
	} else {
		log.Println("Echo replies: disabled (set SENDSEVEN_API_TOKEN and SENDSEVEN_TENANT_ID to enable)")
	}
	if cfg.LogPayloads {
		log.Println("Payload logging: ENABLED")
	} else {
		log.Println("Payload logging: disabled")
	}

	addr := ":" + cfg.Port
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Webhook gateway listening on %s", addr)
	log.Printf("Webhook endpoint: http://localhost:%s/webhooks/sendseven", cfg.Port)

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
