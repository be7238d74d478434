package drive_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/facturas/pkg/drive"
)

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     drive.Config
		env     *drive.Env
		setenv  map[string]string
		want    drive.Config
		wantErr string
	}{
		{
			name: "defaults",
			want: drive.Config{BaseURL: drive.DefaultBaseURL, Scope: drive.DefaultScope},
		},
		{
			name:   "env overrides",
			env:    &drive.Env{BaseURL: "TEST_DRIVE_BASE_URL", Scope: "TEST_DRIVE_SCOPE"},
			setenv: map[string]string{"TEST_DRIVE_BASE_URL": "http://127.0.0.1:9000/drive/", "TEST_DRIVE_SCOPE": "custom"},
			want:   drive.Config{BaseURL: "http://127.0.0.1:9000/drive", Scope: "custom"},
		},
		{
			name: "unnamed env vars ignored",
			cfg:  drive.Config{BaseURL: "https://drive.example.com"},
			env:  &drive.Env{},
			want: drive.Config{BaseURL: "https://drive.example.com", Scope: drive.DefaultScope},
		},
		{
			name:    "relative base url",
			cfg:     drive.Config{BaseURL: "drive/v3"},
			wantErr: "invalid base_url",
		},
		{
			name:    "unsupported scheme",
			cfg:     drive.Config{BaseURL: "ftp://drive.example.com"},
			wantErr: "invalid base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.setenv {
				t.Setenv(k, v)
			}

			cfg := tt.cfg
			err := cfg.Finalize(tt.env)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Finalize() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize() error = %v", err)
			}
			if cfg != tt.want {
				t.Errorf("config = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := drive.Config{BaseURL: "https://base.example.com", Scope: "base"}
	base.Merge(&drive.Config{Scope: "overlay"})

	if base.BaseURL != "https://base.example.com" || base.Scope != "overlay" {
		t.Errorf("merged = %+v", base)
	}
}
