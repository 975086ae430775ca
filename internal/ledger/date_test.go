package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", d.String())

	// Permissive read format.
	d, err = ParseDate("2024-1-5")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", d.String())

	_, err = ParseDate("10/01/2024")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MustParseDate("2024-02-29")
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}

func TestDateZeroAndOrder(t *testing.T) {
	var zero Date
	assert.True(t, zero.IsZero())
	assert.False(t, Today().IsZero())
	assert.True(t, MustParseDate("2024-01-01").Before(MustParseDate("2024-06-01")))
}
