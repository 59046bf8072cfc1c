// Package api is the serverless entry point: one backend per instance,
// built from the environment on the first request.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"storefront/config"
	"storefront/models"
	"storefront/server"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

var (
	backend *server.Backend
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			initErr = err
			return
		}
		log := utils.NewLogger("production", cfg.LogLevel)
		backend, initErr = server.Open(context.Background(), cfg, log)
		if initErr != nil {
			log.Error().Err(initErr).Msg("backend init failed")
		}
	})
}

func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Message: "Service unavailable",
			Error:   initErr.Error(),
		})
		return
	}
	backend.Handler().ServeHTTP(w, r)
}
