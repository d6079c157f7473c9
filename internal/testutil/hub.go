// SPDX-License-Identifier: AGPL-3.0-only

// Package testutil holds fixtures shared by package tests: a scripted hub
// HTTP server and an in-memory store.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Hub is a scripted stand-in for a hub's HTTP API. Responses are keyed by
// endpoint, fid and dimension (reaction_type or user_data_type).
type Hub struct {
	mu         sync.Mutex
	pages      map[string][][]any
	failAt     map[string]int
	shards     map[int][][]int64
	failShards map[int]bool
	requests   map[string]int
}

func NewHub() *Hub {
	return &Hub{
		pages:      make(map[string][][]any),
		failAt:     make(map[string]int),
		shards:     make(map[int][][]int64),
		failShards: make(map[int]bool),
		requests:   make(map[string]int),
	}
}

func hubKey(endpoint string, fid int64, dim string) string {
	return fmt.Sprintf("%s|%d|%s", endpoint, fid, dim)
}

// SetPages scripts the pages returned for one dimension. Every page but the
// last carries a next page token.
func (h *Hub) SetPages(endpoint string, fid int64, dim string, pages ...[]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pages[hubKey(endpoint, fid, dim)] = pages
}

// FailAt makes the page with the given zero-based index answer 500.
func (h *Hub) FailAt(endpoint string, fid int64, dim string, page int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failAt[hubKey(endpoint, fid, dim)] = page
}

func (h *Hub) SetShard(shard int, pages ...[]int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shards[shard] = pages
}

func (h *Hub) FailShard(shard int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failShards[shard] = true
}

// Requests reports how many requests hit endpoint.
func (h *Hub) Requests(endpoint string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests[endpoint]
}

// Start serves the hub until the test ends and returns its base URL.
func (h *Hub) Start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requests[r.URL.Path]++
	q := r.URL.Query()

	page := 0
	if token := q.Get("pageToken"); token != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(token, "page-"))
		if err != nil {
			http.Error(w, "bad page token", http.StatusBadRequest)
			return
		}
		page = n
	}

	if r.URL.Path == "/fids" {
		h.serveFids(w, q.Get("shard_id"), page)
		return
	}

	fid, err := strconv.ParseInt(q.Get("fid"), 10, 64)
	if err != nil {
		http.Error(w, "bad fid", http.StatusBadRequest)
		return
	}
	key := hubKey(r.URL.Path, fid, q.Get("reaction_type")+q.Get("user_data_type"))

	if at, ok := h.failAt[key]; ok && at == page {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	pages := h.pages[key]
	resp := map[string]any{"messages": []any{}}
	if page < len(pages) {
		resp["messages"] = pages[page]
		if page+1 < len(pages) {
			resp["nextPageToken"] = fmt.Sprintf("page-%d", page+1)
		}
	}
	writeJSON(w, resp)
}

func (h *Hub) serveFids(w http.ResponseWriter, shardParam string, page int) {
	shard, err := strconv.Atoi(shardParam)
	if err != nil {
		http.Error(w, "bad shard", http.StatusBadRequest)
		return
	}
	if h.failShards[shard] {
		http.Error(w, "shard unavailable", http.StatusBadGateway)
		return
	}

	pages := h.shards[shard]
	resp := map[string]any{"fids": []int64{}}
	if page < len(pages) {
		resp["fids"] = pages[page]
		if page+1 < len(pages) {
			resp["nextPageToken"] = fmt.Sprintf("page-%d", page+1)
		}
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func CastMessage(hash string, author int64, text string, ts int64) map[string]any {
	return map[string]any{
		"hash": hash,
		"data": map[string]any{
			"type":        "MESSAGE_TYPE_CAST_ADD",
			"fid":         author,
			"timestamp":   ts,
			"castAddBody": map[string]any{"text": text},
		},
	}
}

func ReactionMessage(kind string, targetFid int64, targetHash string, ts int64) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"type":      "MESSAGE_TYPE_REACTION_ADD",
			"timestamp": ts,
			"reactionBody": map[string]any{
				"type":         kind,
				"targetCastId": map[string]any{"fid": targetFid, "hash": targetHash},
			},
		},
	}
}

func VerificationMessage(address string, ts int64) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"type":                       "MESSAGE_TYPE_VERIFICATION_ADD_ETH_ADDRESS",
			"timestamp":                  ts,
			"verificationAddAddressBody": map[string]any{"address": address},
		},
	}
}

func LinkMessage(targetFid int64, ts int64) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"type":      "MESSAGE_TYPE_LINK_ADD",
			"timestamp": ts,
			"linkBody":  map[string]any{"type": "follow", "targetFid": targetFid},
		},
	}
}

func UserDataMessage(kind, value string, ts int64) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"type":         "MESSAGE_TYPE_USER_DATA_ADD",
			"timestamp":    ts,
			"userDataBody": map[string]any{"type": kind, "value": value},
		},
	}
}
