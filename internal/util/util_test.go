package util

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewULID(t *testing.T) {
	a, b := NewULID(), NewULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.True(t, IsValidULID(a))
}

func TestIsValidULID(t *testing.T) {
	assert.True(t, IsValidULID("01HGZ8VNRYXS8QKNJV5GRWPWDQ"))
	assert.False(t, IsValidULID(""))
	assert.False(t, IsValidULID("not-a-ulid"))
	assert.False(t, IsValidULID("01HGZ8VNRYXS8QKNJV5GRWPWD"))
	assert.False(t, IsValidULID("01HGZ8VNRYXS8QKNJV5GRWPWDU"), "U is outside Crockford base32")
}

func TestNullStringToString(t *testing.T) {
	assert.Equal(t, "", NullStringToString(sql.NullString{}))
	assert.Equal(t, "text", NullStringToString(sql.NullString{String: "text", Valid: true}))
}
