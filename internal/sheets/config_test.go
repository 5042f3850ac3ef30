package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "service account auth",
			mutate: func(c *Config) { c.ServiceAccountPath = "/tmp/key.json" },
		},
		{
			name: "oauth auth",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
		},
		{
			name:    "no auth",
			mutate:  func(_ *Config) {},
			wantErr: true,
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
			wantErr: true,
		},
		{
			name: "empty sheet name",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.SheetName = ""
			},
			wantErr: true,
		},
		{
			name: "negative retries",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.RetryAttempts = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadFromEnvRequiresAuth(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("PENNYBOOK_SHEETS_CLIENT_ID", "")
	t.Setenv("PENNYBOOK_SHEETS_CLIENT_SECRET", "")
	t.Setenv("PENNYBOOK_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("PENNYBOOK_SHEETS_SERVICE_ACCOUNT_PATH", "")

	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromEnvServiceAccount(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("PENNYBOOK_SHEETS_SERVICE_ACCOUNT_PATH", "/tmp/key.json")
	t.Setenv("PENNYBOOK_SHEETS_SPREADSHEET_ID", "sheet-id")

	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "/tmp/key.json", cfg.ServiceAccountPath)
	assert.Equal(t, "sheet-id", cfg.SpreadsheetID)
}
