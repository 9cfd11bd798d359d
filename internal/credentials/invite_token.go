package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// InviteTokenBytes is the entropy of an invite token; the encoded token is twice as long
const InviteTokenBytes = 16

// GenerateInviteToken returns a random opaque token for a family invite link
func GenerateInviteToken() (string, error) {
	return randomHex(InviteTokenBytes)
}

// randomHex returns n random bytes encoded as lowercase hex
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
