// SPDX-License-Identifier: AGPL-3.0-only
package fetcher

// Hub HTTP API endpoints, relative to the configured base URL.
const (
	EndpointFids          = "/fids"
	EndpointCasts         = "/castsByFid"
	EndpointReactions     = "/reactionsByFid"
	EndpointVerifications = "/verificationsByFid"
	EndpointLinks         = "/linksByFid"
	EndpointUserData      = "/userDataByFid"
)

type fidsResponse struct {
	Fids          []int64 `json:"fids"`
	NextPageToken string  `json:"nextPageToken"`
}
