// SPDX-License-Identifier: AGPL-3.0-only
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"log"
	"net/url"
	"strconv"

	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/fetcher"
	"github.com/fluffyriot/hubsync/internal/normalize"
)

// Kind names one of the entity types synced per account.
type Kind string

const (
	KindPosts         Kind = "posts"
	KindReactions     Kind = "reactions"
	KindVerifications Kind = "verifications"
	KindLinks         Kind = "links"
	KindProfileFields Kind = "profile_fields"
)

// Kinds is the order in which entity types run inside an account.
var Kinds = []Kind{KindPosts, KindReactions, KindVerifications, KindLinks, KindProfileFields}

// Pager is the slice of the hub client the synchronizer needs.
type Pager interface {
	Paginate(ctx context.Context, endpoint string, params url.Values) iter.Seq[fetcher.Page]
}

// SyncReport summarises one entity type for one account.
//
// Count is every row that normalized, duplicates included. Inserted is what
// the store actually wrote. Skipped counts records that could not be
// normalized and Errors counts rows the store rejected.
type SyncReport struct {
	Kind     Kind   `json:"kind"`
	Count    int    `json:"count"`
	Inserted int64  `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
	Failed   bool   `json:"failed"`
	Err      string `json:"error,omitempty"`
}

type synchronizer interface {
	Kind() Kind
	sync(ctx context.Context, pager Pager, tx database.TxQuerier, fid int64) (SyncReport, error)
}

type entity[T any] struct {
	kind       Kind
	endpoint   string
	dimensions func(fid int64) []url.Values
	normalize  func(fid int64, raw json.RawMessage) (T, error)
	insert     func(ctx context.Context, q database.Querier, row T) (int64, error)
}

func (e entity[T]) Kind() Kind { return e.kind }

// sync pulls every dimension of the entity and writes each row in its own
// savepoint. Only database.ErrUnitOfWorkLost is returned; everything else
// ends up in the report.
func (e entity[T]) sync(ctx context.Context, pager Pager, tx database.TxQuerier, fid int64) (SyncReport, error) {
	report := SyncReport{Kind: e.kind}
	dims := e.dimensions(fid)
	unreachable := 0

	for _, params := range dims {
		for page := range pager.Paginate(ctx, e.endpoint, params) {
			if page.Failed {
				log.Printf("Sync: %s fid=%d (%s) page %d failed: %v", e.kind, fid, params.Encode(), page.Number, page.Err)
				if page.Number == 1 {
					unreachable++
				}
				report.Err = page.Err.Error()
				break
			}

			for _, raw := range page.Messages {
				row, err := e.normalize(fid, raw)
				if err != nil {
					log.Printf("Sync: Skipping %s record for fid=%d: %v", e.kind, fid, err)
					report.Skipped++
					continue
				}
				report.Count++

				var n int64
				err = tx.Try(ctx, func(q database.Querier) error {
					var err error
					n, err = e.insert(ctx, q, row)
					return err
				})
				if err != nil {
					if errors.Is(err, database.ErrUnitOfWorkLost) {
						report.Err = err.Error()
						return report, err
					}
					log.Printf("Sync: Error storing %s row for fid=%d: %v", e.kind, fid, err)
					report.Errors++
					continue
				}
				report.Inserted += n
			}
		}
	}

	report.Failed = len(dims) > 0 && unreachable == len(dims)
	return report, nil
}

func fidParams(fid int64) url.Values {
	params := url.Values{}
	params.Set("fid", strconv.FormatInt(fid, 10))
	return params
}

func single(fid int64) []url.Values {
	return []url.Values{fidParams(fid)}
}

func defaultEntities() []synchronizer {
	return []synchronizer{
		entity[database.InsertCastParams]{
			kind:       KindPosts,
			endpoint:   fetcher.EndpointCasts,
			dimensions: single,
			normalize:  normalize.Cast,
			insert: func(ctx context.Context, q database.Querier, row database.InsertCastParams) (int64, error) {
				return q.InsertCast(ctx, row)
			},
		},
		entity[database.InsertReactionParams]{
			kind:     KindReactions,
			endpoint: fetcher.EndpointReactions,
			dimensions: func(fid int64) []url.Values {
				dims := make([]url.Values, 0, len(normalize.ReactionTypes))
				for _, t := range normalize.ReactionTypes {
					params := fidParams(fid)
					params.Set("reaction_type", t.QueryValue())
					dims = append(dims, params)
				}
				return dims
			},
			normalize: normalize.Reaction,
			insert: func(ctx context.Context, q database.Querier, row database.InsertReactionParams) (int64, error) {
				return q.InsertReaction(ctx, row)
			},
		},
		entity[database.InsertVerificationParams]{
			kind:       KindVerifications,
			endpoint:   fetcher.EndpointVerifications,
			dimensions: single,
			normalize:  normalize.Verification,
			insert: func(ctx context.Context, q database.Querier, row database.InsertVerificationParams) (int64, error) {
				return q.InsertVerification(ctx, row)
			},
		},
		entity[database.InsertLinkParams]{
			kind:     KindLinks,
			endpoint: fetcher.EndpointLinks,
			dimensions: func(fid int64) []url.Values {
				params := fidParams(fid)
				params.Set("link_type", "follow")
				return []url.Values{params}
			},
			normalize: normalize.Link,
			insert: func(ctx context.Context, q database.Querier, row database.InsertLinkParams) (int64, error) {
				return q.InsertLink(ctx, row)
			},
		},
		entity[database.InsertUserDataParams]{
			kind:     KindProfileFields,
			endpoint: fetcher.EndpointUserData,
			dimensions: func(fid int64) []url.Values {
				dims := make([]url.Values, 0, len(normalize.UserDataTypes))
				for _, t := range normalize.UserDataTypes {
					params := fidParams(fid)
					params.Set("user_data_type", t.QueryValue())
					dims = append(dims, params)
				}
				return dims
			},
			normalize: normalize.UserData,
			insert: func(ctx context.Context, q database.Querier, row database.InsertUserDataParams) (int64, error) {
				return q.InsertUserData(ctx, row)
			},
		},
	}
}
