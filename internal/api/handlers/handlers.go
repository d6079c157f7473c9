// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/worker"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	DB     database.Querier
	DBConn Pinger
	Worker *worker.Worker
	Config *config.AppConfig
}

func NewHandler(db database.Querier, conn Pinger, w *worker.Worker, cfg *config.AppConfig) *Handler {
	return &Handler{
		DB:     db,
		DBConn: conn,
		Worker: w,
		Config: cfg,
	}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.HealthCheckHandler)

	api := r.Group("/api")
	api.POST("/sync", h.TriggerSyncHandler)
	api.GET("/stats", h.StatsHandler)
	api.GET("/accounts", h.AccountsHandler)
	api.GET("/accounts/:fid", h.AccountHandler)
	api.POST("/accounts/:fid/sync", h.AccountSyncHandler)
}

func parseFid(c *gin.Context) (int64, bool) {
	fid, err := strconv.ParseInt(c.Param("fid"), 10, 64)
	if err != nil || fid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fid must be a positive integer"})
		return 0, false
	}
	return fid, true
}

func queryLimit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return n, true
}
