// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"database/sql"
	"encoding/json"

	"github.com/fluffyriot/hubsync/internal/database"
)

func UserData(fid int64, raw json.RawMessage) (database.InsertUserDataParams, error) {
	msg, err := decode(raw)
	if err != nil {
		return database.InsertUserDataParams{}, err
	}
	data := msg.Data

	ts, err := Timestamp(data.Timestamp)
	if err != nil {
		return database.InsertUserDataParams{}, err
	}

	row := database.InsertUserDataParams{
		Fid:       fid,
		Timestamp: ts,
	}

	body := data.UserDataBody
	if body == nil {
		return row, nil
	}

	if body.Type != nil {
		kind, err := ParseUserDataType(*body.Type)
		if err != nil {
			return database.InsertUserDataParams{}, err
		}
		row.Type = sql.NullString{String: kind.String(), Valid: true}
	}
	row.Value = nullString(body.Value)

	return row, nil
}
