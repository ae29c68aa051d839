package service

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	sessionSecretBytes     = 32
	uploadTokenSecretBytes = 24
	viewTokenSecretBytes   = 32
)

func generateSecret(n int) (string, error) {
	bytes := make([]byte, n)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
