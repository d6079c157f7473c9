// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"database/sql"
	"encoding/json"

	"github.com/fluffyriot/hubsync/internal/database"
)

func Reaction(fid int64, raw json.RawMessage) (database.InsertReactionParams, error) {
	msg, err := decode(raw)
	if err != nil {
		return database.InsertReactionParams{}, err
	}
	data := msg.Data

	ts, err := Timestamp(data.Timestamp)
	if err != nil {
		return database.InsertReactionParams{}, err
	}

	row := database.InsertReactionParams{
		Fid:       fid,
		Timestamp: ts,
	}

	body := data.ReactionBody
	if body == nil {
		return row, nil
	}

	if body.Type != nil {
		kind, err := ParseReactionType(*body.Type)
		if err != nil {
			return database.InsertReactionParams{}, err
		}
		row.Type = sql.NullString{String: kind.String(), Valid: true}
	}

	if target := body.TargetCastID; target != nil {
		row.TargetFid = nullInt64(target.Fid)
		row.TargetHash = nullString(target.Hash)
	}

	return row, nil
}
