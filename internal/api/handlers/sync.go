// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/fluffyriot/hubsync/internal/syncer"
	"github.com/fluffyriot/hubsync/internal/worker"
	"github.com/gin-gonic/gin"
)

func (h *Handler) TriggerSyncHandler(c *gin.Context) {
	if h.Worker.IsRunning() {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "skipped",
			"message": "Sync already in progress",
		})
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic in manual sync trigger: %v", r)
			}
		}()
		h.Worker.SyncAll()
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "ok",
		"message": "Sync triggered successfully",
	})
}

func (h *Handler) AccountSyncHandler(c *gin.Context) {
	fid, ok := parseFid(c)
	if !ok {
		return
	}

	res, err := h.Worker.SyncAccount(c.Request.Context(), fid)
	if errors.Is(err, worker.ErrSyncInProgress) {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "skipped",
			"message": "Sync already in progress",
		})
		return
	}

	status := http.StatusOK
	if res.Status != syncer.StatusDone {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}
