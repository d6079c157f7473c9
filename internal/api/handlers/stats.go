// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/fluffyriot/hubsync/internal/stats"
	"github.com/gin-gonic/gin"
)

const (
	defaultAccountsLimit = 50
	defaultRecentLimit   = 5
)

func (h *Handler) StatsHandler(c *gin.Context) {
	counts, err := stats.GetTableCounts(c.Request.Context(), h.DB)
	if err != nil {
		log.Printf("Error getting stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"tables": counts}
	if h.Worker != nil {
		if last, ok := h.Worker.LastSummary(); ok {
			resp["last_run"] = last
		}
		resp["sync_running"] = h.Worker.IsRunning()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AccountsHandler(c *gin.Context) {
	limit, ok := queryLimit(c, defaultAccountsLimit)
	if !ok {
		return
	}

	accounts, err := stats.ListAccounts(c.Request.Context(), h.DB, limit)
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *Handler) AccountHandler(c *gin.Context) {
	fid, ok := parseFid(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, defaultRecentLimit)
	if !ok {
		return
	}

	summary, err := stats.GetAccountSummary(c.Request.Context(), h.DB, fid, limit)
	if err != nil {
		if errors.Is(err, stats.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error getting account %d: %v", fid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
