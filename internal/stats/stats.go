// SPDX-License-Identifier: AGPL-3.0-only
package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/helpers"
	"github.com/google/uuid"
)

var ErrAccountNotFound = errors.New("account not found")

type TableCounts struct {
	Fids          int64 `json:"fids"`
	Casts         int64 `json:"casts"`
	Reactions     int64 `json:"reactions"`
	Verifications int64 `json:"verifications"`
	Links         int64 `json:"links"`
	UserData      int64 `json:"user_data"`
}

type AccountView struct {
	Fid          int64     `json:"fid"`
	RegisteredAt time.Time `json:"registered_at"`
	ProfileURL   string    `json:"profile_url"`
}

type CastView struct {
	Hash       string    `json:"hash"`
	ParentHash string    `json:"parent_hash,omitempty"`
	Text       string    `json:"text,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type ReactionView struct {
	Type       string    `json:"type,omitempty"`
	TargetFid  int64     `json:"target_fid,omitempty"`
	TargetHash string    `json:"target_hash,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type VerificationView struct {
	Address   string    `json:"address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type LinkView struct {
	Type      string    `json:"type,omitempty"`
	TargetFid int64     `json:"target_fid,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type UserDataView struct {
	Type      string    `json:"type,omitempty"`
	Value     string    `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type RunView struct {
	ID         uuid.UUID       `json:"id"`
	Status     string          `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Details    json.RawMessage `json:"details,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// AccountSummary is everything the reporting surfaces show for one account.
type AccountSummary struct {
	Account       AccountView        `json:"account"`
	Counts        TableCounts        `json:"counts"`
	Casts         []CastView         `json:"casts"`
	Reactions     []ReactionView     `json:"reactions"`
	Verifications []VerificationView `json:"verifications"`
	Links         []LinkView         `json:"links"`
	UserData      []UserDataView     `json:"user_data"`
	LatestRun     *RunView           `json:"latest_run,omitempty"`
}

func GetTableCounts(ctx context.Context, q database.Querier) (TableCounts, error) {
	row, err := q.CountTableRows(ctx)
	if err != nil {
		return TableCounts{}, err
	}
	return TableCounts{
		Fids:          row.Fids,
		Casts:         row.Casts,
		Reactions:     row.Reactions,
		Verifications: row.Verifications,
		Links:         row.Links,
		UserData:      row.UserData,
	}, nil
}

func ListAccounts(ctx context.Context, q database.Querier, limit int) ([]AccountView, error) {
	rows, err := q.ListAccounts(ctx, helpers.ClampToInt32(limit))
	if err != nil {
		return nil, err
	}

	accounts := make([]AccountView, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, accountView(row))
	}
	return accounts, nil
}

func accountView(row database.Fid) AccountView {
	return AccountView{
		Fid:          row.Fid,
		RegisteredAt: row.CreatedAt,
		ProfileURL:   helpers.ConvFidToURL(row.Fid),
	}
}

// GetAccountSummary collects per-entity counts, the newest limit rows of
// each entity and the latest sync run for fid.
func GetAccountSummary(ctx context.Context, q database.Querier, fid int64, limit int) (AccountSummary, error) {
	account, err := q.GetAccount(ctx, fid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccountSummary{}, fmt.Errorf("%w: fid %d", ErrAccountNotFound, fid)
		}
		return AccountSummary{}, err
	}

	summary := AccountSummary{Account: accountView(account)}
	n := helpers.ClampToInt32(limit)

	counts, err := q.CountAccountRows(ctx, fid)
	if err != nil {
		return AccountSummary{}, err
	}
	summary.Counts = TableCounts{
		Fids:          1,
		Casts:         counts.Casts,
		Reactions:     counts.Reactions,
		Verifications: counts.Verifications,
		Links:         counts.Links,
		UserData:      counts.UserData,
	}

	casts, err := q.ListRecentCasts(ctx, database.ListRecentCastsParams{Fid: fid, Limit: n})
	if err != nil {
		return AccountSummary{}, err
	}
	for _, c := range casts {
		summary.Casts = append(summary.Casts, CastView{
			Hash:       c.Hash,
			ParentHash: c.ParentHash.String,
			Text:       c.Text.String,
			Timestamp:  c.Timestamp,
		})
	}

	reactions, err := q.ListRecentReactions(ctx, database.ListRecentReactionsParams{Fid: fid, Limit: n})
	if err != nil {
		return AccountSummary{}, err
	}
	for _, r := range reactions {
		summary.Reactions = append(summary.Reactions, ReactionView{
			Type:       r.Type.String,
			TargetFid:  r.TargetFid.Int64,
			TargetHash: r.TargetHash.String,
			Timestamp:  r.Timestamp,
		})
	}

	verifications, err := q.ListRecentVerifications(ctx, database.ListRecentVerificationsParams{Fid: fid, Limit: n})
	if err != nil {
		return AccountSummary{}, err
	}
	for _, v := range verifications {
		summary.Verifications = append(summary.Verifications, VerificationView{
			Address:   v.Address.String,
			Timestamp: v.Timestamp,
		})
	}

	links, err := q.ListRecentLinks(ctx, database.ListRecentLinksParams{Fid: fid, Limit: n})
	if err != nil {
		return AccountSummary{}, err
	}
	for _, l := range links {
		summary.Links = append(summary.Links, LinkView{
			Type:      l.Type.String,
			TargetFid: l.TargetFid.Int64,
			Timestamp: l.Timestamp,
		})
	}

	userData, err := q.ListRecentUserData(ctx, database.ListRecentUserDataParams{Fid: fid, Limit: n})
	if err != nil {
		return AccountSummary{}, err
	}
	for _, u := range userData {
		summary.UserData = append(summary.UserData, UserDataView{
			Type:      u.Type.String,
			Value:     u.Value.String,
			Timestamp: u.Timestamp,
		})
	}

	run, err := q.GetLatestSyncRun(ctx, fid)
	switch {
	case err == nil:
		summary.LatestRun = &RunView{
			ID:         run.ID,
			Status:     run.Status,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
			Details:    run.Details,
			Error:      run.Error.String,
		}
	case !errors.Is(err, sql.ErrNoRows):
		return AccountSummary{}, err
	}

	return summary, nil
}
