// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"encoding/json"

	"github.com/fluffyriot/hubsync/internal/database"
)

func Verification(fid int64, raw json.RawMessage) (database.InsertVerificationParams, error) {
	msg, err := decode(raw)
	if err != nil {
		return database.InsertVerificationParams{}, err
	}
	data := msg.Data

	ts, err := Timestamp(data.Timestamp)
	if err != nil {
		return database.InsertVerificationParams{}, err
	}

	row := database.InsertVerificationParams{
		Fid:       fid,
		Timestamp: ts,
	}

	// Current hubs send verificationAddAddressBody; older ones used the
	// eth-only body name.
	body := data.VerificationAddAddressBody
	if body == nil {
		body = data.VerificationAddEthAddressBody
	}
	if body != nil {
		row.Address = nullString(body.Address)
	}

	return row, nil
}
