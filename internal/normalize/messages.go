// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks a record that cannot be turned into a row at all.
	ErrMalformed = errors.New("malformed record")
	// ErrUnknownKind marks a record whose reaction or profile-field kind is
	// outside the closed set this synchronizer stores.
	ErrUnknownKind = errors.New("unknown kind")
)

// hubMessage mirrors the hub's JSON message envelope. Every nested level is a
// pointer so an absent field stays distinguishable from a zero value.
type hubMessage struct {
	Hash *string      `json:"hash"`
	Data *messageData `json:"data"`
}

type messageData struct {
	Type      *string `json:"type"`
	Fid       *int64  `json:"fid"`
	Timestamp *int64  `json:"timestamp"`
	Hash      *string `json:"hash"`

	CastAddBody                   *castAddBody      `json:"castAddBody"`
	ReactionBody                  *reactionBody     `json:"reactionBody"`
	VerificationAddAddressBody    *verificationBody `json:"verificationAddAddressBody"`
	VerificationAddEthAddressBody *verificationBody `json:"verificationAddEthAddressBody"`
	LinkBody                      *linkBody         `json:"linkBody"`
	UserDataBody                  *userDataBody     `json:"userDataBody"`
}

type castID struct {
	Fid  *int64  `json:"fid"`
	Hash *string `json:"hash"`
}

type castAddBody struct {
	Text         *string `json:"text"`
	ParentCastID *castID `json:"parentCastId"`
	ParentURL    *string `json:"parentUrl"`
}

type reactionBody struct {
	Type         *string `json:"type"`
	TargetCastID *castID `json:"targetCastId"`
	TargetURL    *string `json:"targetUrl"`
}

type verificationBody struct {
	Address *string `json:"address"`
}

type linkBody struct {
	Type      *string `json:"type"`
	TargetFid *int64  `json:"targetFid"`
}

type userDataBody struct {
	Type  *string `json:"type"`
	Value *string `json:"value"`
}

// decode unpacks one raw hub message. Only an undecodable record or one with
// no data container is rejected; everything below data is optional.
func decode(raw json.RawMessage) (*hubMessage, error) {
	var msg hubMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msg.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrMalformed)
	}
	return &msg, nil
}
