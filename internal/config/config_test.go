package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("INVITE_TTL", "")
	t.Setenv("SESSION_DURATION", "")

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want %q", cfg.DatabaseType, "sqlite")
	}
	if cfg.InviteTTL != 0 {
		t.Errorf("InviteTTL = %v, want 0", cfg.InviteTTL)
	}
	if cfg.SessionDuration != 24*time.Hour {
		t.Errorf("SessionDuration = %v, want 24h", cfg.SessionDuration)
	}
}

func TestLoadOverrides(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{
			name:  "port",
			key:   "PORT",
			value: "9090",
			check: func(c *Config) bool { return c.ServerPort == "9090" },
		},
		{
			name:  "invite ttl",
			key:   "INVITE_TTL",
			value: "72h",
			check: func(c *Config) bool { return c.InviteTTL == 72*time.Hour },
		},
		{
			name:  "invalid duration falls back",
			key:   "SESSION_DURATION",
			value: "forever",
			check: func(c *Config) bool { return c.SessionDuration == 24*time.Hour },
		},
		{
			name:  "redis db",
			key:   "REDIS_DB",
			value: "3",
			check: func(c *Config) bool { return c.RedisDB == 3 },
		},
		{
			name:  "invalid int falls back",
			key:   "RATE_LIMIT",
			value: "lots",
			check: func(c *Config) bool { return c.RateLimit == 10 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if !tt.check(Load()) {
				t.Errorf("%s=%q not applied", tt.key, tt.value)
			}
		})
	}
}
