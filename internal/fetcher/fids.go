// SPDX-License-Identifier: AGPL-3.0-only
package fetcher

import (
	"context"
	"log"
	"net/url"
	"strconv"
)

// DiscoverFids collects up to target account identifiers by listing each
// shard in order. A shard that fails or runs dry hands over to the next one.
func (c *Client) DiscoverFids(ctx context.Context, shards []int, target, pageSize int) []int64 {
	if target <= 0 {
		return nil
	}

	seen := make(map[int64]struct{}, target)
	fids := make([]int64, 0, target)

	for _, shard := range shards {
		if len(fids) >= target || ctx.Err() != nil {
			break
		}

		params := url.Values{}
		params.Set("shard_id", strconv.Itoa(shard))
		if pageSize > 0 {
			params.Set("pageSize", strconv.Itoa(pageSize))
		}

		collected := 0
		var token string

	pages:
		for page := 0; page < c.maxPages; page++ {
			if token != "" {
				params.Set("pageToken", token)
			}

			var resp fidsResponse
			if err := c.getJSON(ctx, EndpointFids, params, &resp); err != nil {
				log.Printf("Fetcher: Error fetching FIDs from shard %d: %v", shard, err)
				break
			}

			if len(resp.Fids) == 0 {
				break
			}

			for _, fid := range resp.Fids {
				if fid <= 0 {
					continue
				}
				if _, dup := seen[fid]; dup {
					continue
				}
				seen[fid] = struct{}{}
				fids = append(fids, fid)
				collected++
				if len(fids) >= target {
					break pages
				}
			}

			if resp.NextPageToken == "" || resp.NextPageToken == token {
				break
			}
			token = resp.NextPageToken
		}

		log.Printf("Fetcher: Fetched %d FIDs from shard %d", collected, shard)
	}

	log.Printf("Fetcher: Total FIDs collected: %d", len(fids))
	return fids
}
