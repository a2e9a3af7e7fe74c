package api

import (
	"net/http"
	"time"

	"hookgate/internal/buildinfo"
)

// DebugHandler reports build info and a non-secret configuration snapshot.
func (s *Server) DebugHandler(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":               s.Cfg.Port,
			"LOG_PAYLOADS":       s.Cfg.LogPayloads,
			"WEBHOOK_MAX_AGE":    s.Cfg.MaxAge.String(),
			"RATE_RPS":           s.Cfg.RateRPS,
			"RATE_BURST":         s.Cfg.RateBurst,
			"ECHO_ENABLED":       s.Cfg.EchoEnabled(),
			"HAS_WEBHOOK_SECRET": s.Cfg.WebhookSecret != "",
			"HAS_DATABASE_URL":   s.Cfg.DatabaseURL != "",
			"HAS_REDIS_URL":      s.Cfg.RedisURL != "",
		},
	}
	writeJSON(w, http.StatusOK, info)
}
