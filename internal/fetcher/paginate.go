// SPDX-License-Identifier: AGPL-3.0-only
package fetcher

import (
	"context"
	"encoding/json"
	"iter"
	"log"
	"net/url"
	"strconv"
)

// Page is one response page from a paginated hub endpoint. A page with
// Failed set is always the last one yielded; Err carries the cause.
type Page struct {
	Number        int
	Messages      []json.RawMessage
	NextPageToken string
	Failed        bool
	Err           error
}

type messagesResponse struct {
	Messages      []json.RawMessage `json:"messages"`
	NextPageToken string            `json:"nextPageToken"`
}

// Paginate walks endpoint page by page. Nothing is requested until the
// sequence is ranged over, and every range starts again from the first page.
//
// The sequence ends when the hub returns no next token, repeats the token it
// was just given, a request fails, or the page limit is reached. A failure is
// reported as a final Page with Failed set rather than as an error, so the
// caller decides whether to log and move on.
func (c *Client) Paginate(ctx context.Context, endpoint string, params url.Values) iter.Seq[Page] {
	return func(yield func(Page) bool) {
		query := url.Values{}
		for k, v := range params {
			query[k] = append([]string(nil), v...)
		}
		if query.Get("pageSize") == "" && c.pageSize > 0 {
			query.Set("pageSize", strconv.Itoa(c.pageSize))
		}

		var token string

		for page := 1; page <= c.maxPages; page++ {
			if token != "" {
				query.Set("pageToken", token)
			}

			var resp messagesResponse
			if err := c.getJSON(ctx, endpoint, query, &resp); err != nil {
				yield(Page{Number: page, Failed: true, Err: err})
				return
			}

			next := resp.NextPageToken
			if next != "" && next == token {
				log.Printf("Fetcher: %s returned the same page token twice, stopping", endpoint)
				next = ""
			}

			if !yield(Page{Number: page, Messages: resp.Messages, NextPageToken: next}) {
				return
			}

			if next == "" {
				return
			}
			token = next
		}

		log.Printf("Fetcher: %s reached the page limit (%d), stopping", endpoint, c.maxPages)
	}
}
