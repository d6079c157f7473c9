// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler reports database reachability plus the scheduler state.
// Only the database decides the status code.
func (h *Handler) HealthCheckHandler(c *gin.Context) {
	body := gin.H{"sync": h.schedulerState()}

	if h.DBConn == nil {
		body["status"] = "failure"
		body["details"] = "database connection not initialized"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	started := time.Now()
	if err := h.DBConn.PingContext(ctx); err != nil {
		body["status"] = "failure"
		body["details"] = "database ping failed: " + err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "ok"
	body["db_latency_ms"] = time.Since(started).Milliseconds()
	c.JSON(http.StatusOK, body)
}

func (h *Handler) schedulerState() gin.H {
	if h.Worker == nil {
		return gin.H{"scheduled": false, "running": false}
	}

	state := gin.H{
		"scheduled": h.Worker.IsActive(),
		"running":   h.Worker.IsRunning(),
	}
	if summary, ok := h.Worker.LastSummary(); ok {
		state["last_run"] = gin.H{
			"finished_at": summary.Finished,
			"accounts":    summary.Accounts,
			"done":        summary.Done,
			"aborted":     summary.Aborted,
		}
	}
	return state
}
