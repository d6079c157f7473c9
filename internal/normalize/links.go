// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"encoding/json"

	"github.com/fluffyriot/hubsync/internal/database"
)

func Link(fid int64, raw json.RawMessage) (database.InsertLinkParams, error) {
	msg, err := decode(raw)
	if err != nil {
		return database.InsertLinkParams{}, err
	}
	data := msg.Data

	ts, err := Timestamp(data.Timestamp)
	if err != nil {
		return database.InsertLinkParams{}, err
	}

	row := database.InsertLinkParams{
		Fid:       fid,
		Timestamp: ts,
	}

	if body := data.LinkBody; body != nil {
		row.TargetFid = nullInt64(body.TargetFid)
		row.Type = nullString(body.Type)
	}

	return row, nil
}
