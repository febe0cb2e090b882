package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenTempPassword generates a random temporary password for admin-created
// accounts. It is delivered out-of-band and expected to be changed on
// first login.
func GenTempPassword() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
