// SPDX-License-Identifier: AGPL-3.0-only
package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hell…", Truncate("hello world", 5))
	assert.Equal(t, "a b", Truncate("a\nb", 10))
	assert.Equal(t, "日本…", Truncate("日本語テキスト", 3))
	assert.Equal(t, "", Truncate("x", 0))
}

func TestClampToInt32(t *testing.T) {
	assert.EqualValues(t, 5, ClampToInt32(5))
	assert.EqualValues(t, 0, ClampToInt32(-3))
	assert.EqualValues(t, math.MaxInt32, ClampToInt32(math.MaxInt32+10))
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://farcaster.xyz/~/profiles/3", ConvFidToURL(3))

	u, err := ConvCastToURL("0x1234567890ab")
	assert.NoError(t, err)
	assert.Equal(t, "https://farcaster.xyz/~/conversations/0x1234567890ab", u)

	_, err = ConvCastToURL("nothex")
	assert.Error(t, err)
}

func TestTableColor(t *testing.T) {
	assert.Equal(t, "#1185fe", TableColor("casts"))
	assert.Equal(t, "#888888", TableColor("unknown"))
}
