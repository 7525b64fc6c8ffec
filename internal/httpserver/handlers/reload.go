package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/cookbook/internal/httpserver/deps"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
	"github.com/MrSnakeDoc/cookbook/internal/utils"
)

type reloadResponse struct {
	Status string `json:"status"`
}

// Reload queues one catalog reload. A request that arrives while one is
// already queued gets 429 instead of stacking another.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r, d.TrustProxy)
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("catalog reload requested", logger.String("remote_ip", ip))
			writeJSON(w, http.StatusAccepted, reloadResponse{Status: "reload queued"})
		default:
			d.Logger.Warn("catalog reload already queued", logger.String("remote_ip", ip))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "a catalog reload is already queued"})
		}
	}
}
