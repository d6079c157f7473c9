// SPDX-License-Identifier: AGPL-3.0-only
package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fluffyriot/hubsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, c *Client, endpoint string, params url.Values) []Page {
	t.Helper()
	var pages []Page
	for page := range c.Paginate(context.Background(), endpoint, params) {
		pages = append(pages, page)
	}
	return pages
}

func fidParams(fid string) url.Values {
	return url.Values{"fid": []string{fid}}
}

func TestPaginateWalksAllPages(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(EndpointCasts, 42, "",
		[]any{testutil.CastMessage("0x1", 42, "a", 1), testutil.CastMessage("0x2", 42, "b", 2)},
		[]any{testutil.CastMessage("0x3", 42, "c", 3), testutil.CastMessage("0x4", 42, "d", 4)},
		[]any{},
	)
	c := NewClient(hub.Start(t), time.Second, WithRetries(0))

	pages := collect(t, c, EndpointCasts, fidParams("42"))

	require.Len(t, pages, 3)
	assert.Len(t, pages[0].Messages, 2)
	assert.Len(t, pages[1].Messages, 2)
	assert.Empty(t, pages[2].Messages)
	assert.Equal(t, "page-1", pages[0].NextPageToken)
	assert.Empty(t, pages[2].NextPageToken)
	for i, p := range pages {
		assert.False(t, p.Failed)
		assert.Equal(t, i+1, p.Number)
	}
	assert.Equal(t, 3, hub.Requests(EndpointCasts))
}

func TestPaginateFailureIsTerminalPage(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(EndpointReactions, 42, "Like",
		[]any{testutil.ReactionMessage("REACTION_TYPE_LIKE", 1, "0xa", 1)},
		[]any{testutil.ReactionMessage("REACTION_TYPE_LIKE", 1, "0xb", 2)},
		[]any{testutil.ReactionMessage("REACTION_TYPE_LIKE", 1, "0xc", 3)},
	)
	hub.FailAt(EndpointReactions, 42, "Like", 1)
	c := NewClient(hub.Start(t), time.Second, WithRetries(0))

	params := fidParams("42")
	params.Set("reaction_type", "Like")
	pages := collect(t, c, EndpointReactions, params)

	require.Len(t, pages, 2)
	assert.False(t, pages[0].Failed)
	assert.True(t, pages[1].Failed)

	var statusErr *StatusError
	require.True(t, errors.As(pages[1].Err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestPaginateStopsOnRepeatedToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{}],"nextPageToken":"stuck"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, WithRetries(0))
	pages := collect(t, c, EndpointCasts, fidParams("1"))

	require.Len(t, pages, 2)
	assert.Equal(t, "stuck", pages[0].NextPageToken)
	assert.Empty(t, pages[1].NextPageToken)
	assert.EqualValues(t, 2, calls.Load())
}

func TestPaginateHonorsPageLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[],"nextPageToken":"t` + string(rune('a'+n)) + `"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, WithRetries(0), WithMaxPages(3))
	pages := collect(t, c, EndpointCasts, fidParams("1"))

	assert.Len(t, pages, 3)
	assert.EqualValues(t, 3, calls.Load())
}

func TestPaginateIsLazyAndRestartable(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(EndpointVerifications, 7, "",
		[]any{testutil.VerificationMessage("0x1", 1)},
		[]any{testutil.VerificationMessage("0x2", 2)},
	)
	c := NewClient(hub.Start(t), time.Second, WithRetries(0))

	seq := c.Paginate(context.Background(), EndpointVerifications, fidParams("7"))
	assert.Zero(t, hub.Requests(EndpointVerifications), "no request before ranging")

	for range seq {
		break
	}
	assert.Equal(t, 1, hub.Requests(EndpointVerifications), "stopping early stops requests")

	var numbers []int
	for page := range seq {
		numbers = append(numbers, page.Number)
	}
	assert.Equal(t, []int{1, 2}, numbers, "a second range starts from the first page")
	assert.Equal(t, 3, hub.Requests(EndpointVerifications))
}

func TestPaginateSendsPagingParams(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Query())
		mu.Unlock()
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"messages":[],"nextPageToken":"next"}`))
			return
		}
		_, _ = w.Write([]byte(`{"messages":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, WithAPIKey("secret"), WithPageSize(25), WithRetries(0))
	params := fidParams("9")
	collect(t, c, EndpointLinks, params)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, "25", seen[0].Get("pageSize"))
	assert.Equal(t, "9", seen[0].Get("fid"))
	assert.False(t, seen[0].Has("pageToken"))
	assert.Equal(t, "next", seen[1].Get("pageToken"))
	assert.False(t, params.Has("pageSize"), "caller params are not mutated")
}

func TestGetJSONRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, 5*time.Second, WithRetries(1))
	pages := collect(t, c, EndpointCasts, fidParams("1"))

	require.Len(t, pages, 1)
	assert.False(t, pages[0].Failed)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad fid", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second, WithRetries(3))
	pages := collect(t, c, EndpointCasts, fidParams("x"))

	require.Len(t, pages, 1)
	assert.True(t, pages[0].Failed)
	assert.Contains(t, pages[0].Err.Error(), "bad fid")
	assert.EqualValues(t, 1, calls.Load())
}
