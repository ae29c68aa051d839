package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("a_b-c123"))

	assert.Error(t, ValidateUsername("ab"), "too short")
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("emoji😀name"))
	assert.Error(t, ValidateUsername(""))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("new password 123"))

	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("password1"), "common pattern")
	assert.Error(t, ValidatePassword(string(make([]byte, 73))), "bcrypt truncation limit")
}

func TestValidateHexColor(t *testing.T) {
	assert.NoError(t, ValidateHexColor("#fff"))
	assert.NoError(t, ValidateHexColor("#0F0F0F"))

	assert.Error(t, ValidateHexColor("fff"))
	assert.Error(t, ValidateHexColor("#ffff"))
	assert.Error(t, ValidateHexColor("#gggggg"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Alice <alice@example.com>"), "only bare addresses")
}

func TestValidateTokenName(t *testing.T) {
	assert.NoError(t, ValidateTokenName("sharex"))

	assert.Error(t, ValidateTokenName(""))
	assert.Error(t, ValidateTokenName("   "))
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateTokenName(string(long)))
}
