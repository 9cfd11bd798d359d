package credentials

import (
	"encoding/hex"
	"testing"
)

func TestGenerateInviteToken(t *testing.T) {
	tests := []struct {
		name       string
		iterations int
	}{
		{
			name:       "single token",
			iterations: 1,
		},
		{
			name:       "unique tokens",
			iterations: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < tt.iterations; i++ {
				token, err := GenerateInviteToken()
				if err != nil {
					t.Fatalf("GenerateInviteToken() error = %v", err)
				}
				if len(token) != InviteTokenBytes*2 {
					t.Errorf("token length = %d, want %d", len(token), InviteTokenBytes*2)
				}
				if _, err := hex.DecodeString(token); err != nil {
					t.Errorf("token %q is not hex", token)
				}
				if seen[token] {
					t.Errorf("duplicate token generated: %s", token)
				}
				seen[token] = true
			}
		})
	}
}
