package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loginrecon/internal/common"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "oauth credentials are sufficient",
			config: Config{
				ClientID:     "id",
				ClientSecret: "secret",
				RefreshToken: "token",
				BatchSize:    100,
			},
		},
		{
			name: "service account is sufficient",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
		},
		{
			name:    "no auth method fails",
			config:  Config{BatchSize: 100},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "both auth methods fail",
			config: Config{
				ClientID:           "id",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name: "partial oauth credentials fail",
			config: Config{
				ClientID:  "id",
				BatchSize: 100,
			},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "zero batch size fails",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 1000, config.BatchSize)
	assert.Equal(t, 3, config.RetryAttempts)
}
