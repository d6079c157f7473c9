// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/fluffyriot/hubsync/internal/database"
)

// Cast maps a CastAdd message to a casts row owned by fid.
func Cast(fid int64, raw json.RawMessage) (database.InsertCastParams, error) {
	msg, err := decode(raw)
	if err != nil {
		return database.InsertCastParams{}, err
	}
	data := msg.Data

	hash := msg.Hash
	if hash == nil || *hash == "" {
		hash = data.Hash
	}
	if hash == nil || *hash == "" {
		return database.InsertCastParams{}, fmt.Errorf("%w: cast without hash", ErrMalformed)
	}

	ts, err := Timestamp(data.Timestamp)
	if err != nil {
		return database.InsertCastParams{}, err
	}

	row := database.InsertCastParams{
		Fid:       fid,
		Hash:      *hash,
		AuthorFid: nullInt64(data.Fid),
		Timestamp: ts,
	}

	if body := data.CastAddBody; body != nil {
		row.Text = nullString(body.Text)
		if body.ParentCastID != nil {
			row.ParentHash = nullString(body.ParentCastID.Hash)
		}
	}

	return row, nil
}
