// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"fmt"
	"strings"
)

type ReactionType int

const (
	ReactionNone ReactionType = iota
	ReactionLike
	ReactionRecast
)

// ReactionTypes is the fixed order in which reaction dimensions are synced.
var ReactionTypes = []ReactionType{ReactionLike, ReactionRecast, ReactionNone}

// QueryValue is the value the hub expects in the reaction_type parameter.
func (t ReactionType) QueryValue() string {
	switch t {
	case ReactionLike:
		return "Like"
	case ReactionRecast:
		return "Recast"
	default:
		return "None"
	}
}

func (t ReactionType) String() string {
	switch t {
	case ReactionLike:
		return "REACTION_TYPE_LIKE"
	case ReactionRecast:
		return "REACTION_TYPE_RECAST"
	default:
		return "REACTION_TYPE_NONE"
	}
}

// ParseReactionType accepts both the protobuf enum name the hub returns in
// message bodies and the short form used in query parameters.
func ParseReactionType(s string) (ReactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REACTION_TYPE_LIKE", "LIKE":
		return ReactionLike, nil
	case "REACTION_TYPE_RECAST", "RECAST":
		return ReactionRecast, nil
	case "REACTION_TYPE_NONE", "NONE":
		return ReactionNone, nil
	}
	return ReactionNone, fmt.Errorf("%w: reaction type %q", ErrUnknownKind, s)
}

type UserDataType int

const (
	UserDataPfp UserDataType = iota + 1
	UserDataDisplay
	UserDataBio
	UserDataURL
	UserDataUsername
)

// UserDataTypes lists the profile fields synced per account. The hub has no
// call returning all of them at once.
var UserDataTypes = []UserDataType{
	UserDataPfp,
	UserDataDisplay,
	UserDataBio,
	UserDataURL,
	UserDataUsername,
}

var userDataNames = map[UserDataType]string{
	UserDataPfp:      "USER_DATA_TYPE_PFP",
	UserDataDisplay:  "USER_DATA_TYPE_DISPLAY",
	UserDataBio:      "USER_DATA_TYPE_BIO",
	UserDataURL:      "USER_DATA_TYPE_URL",
	UserDataUsername: "USER_DATA_TYPE_USERNAME",
}

func (t UserDataType) String() string {
	if name, ok := userDataNames[t]; ok {
		return name
	}
	return fmt.Sprintf("USER_DATA_TYPE(%d)", int(t))
}

func (t UserDataType) QueryValue() string {
	return t.String()
}

func ParseUserDataType(s string) (UserDataType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t, n := range userDataNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: user data type %q", ErrUnknownKind, s)
}
