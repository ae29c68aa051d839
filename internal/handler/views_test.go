package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentURLWithToken(t *testing.T) {
	base := "https://shot.example/api/uploads/content/f1"

	assert.Equal(t, base, contentURLWithToken(base, ""))
	assert.Equal(t, base+"?vt=abc123", contentURLWithToken(base, "abc123"))

	// Reserved characters in the secret must stay inside the vt parameter
	assert.Equal(t, base+"?vt=a%26b+c%3Dd", contentURLWithToken(base, "a&b c=d"))
}
