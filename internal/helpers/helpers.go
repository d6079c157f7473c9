// SPDX-License-Identifier: AGPL-3.0-only
package helpers

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

type EntityTable struct {
	Name  string
	Color string
}

// AvailableTables lists the synced tables in report order.
var AvailableTables = []EntityTable{
	{Name: "fids", Color: "#8a63d2"},
	{Name: "casts", Color: "#1185fe"},
	{Name: "reactions", Color: "#ff0076"},
	{Name: "verifications", Color: "#45b058"},
	{Name: "links", Color: "#e37400"},
	{Name: "user_data", Color: "#26a4e3"},
}

func TableColor(name string) string {
	for _, t := range AvailableTables {
		if t.Name == name {
			return t.Color
		}
	}
	return "#888888"
}

func ConvFidToURL(fid int64) string {
	return fmt.Sprintf("https://farcaster.xyz/~/profiles/%d", fid)
}

func ConvCastToURL(hash string) (string, error) {
	if !strings.HasPrefix(hash, "0x") || len(hash) < 10 {
		return "", fmt.Errorf("cast hash %q not recognized", hash)
	}
	return "https://farcaster.xyz/~/conversations/" + hash, nil
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

func ClampToInt32(n int) int32 {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < 0:
		return 0
	}
	return int32(n)
}
