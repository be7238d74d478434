package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/facturas/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderSupabase {
		t.Errorf("provider: got %s, want supabase", cfg.Provider)
	}
	if got := cfg.MaxDownloadSizeBytes(); got != 25*1024*1024 {
		t.Errorf("max download size: got %d, want 25MB", got)
	}
	if !cfg.SSL() {
		t.Error("ssl should default to true")
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "s3")
	t.Setenv("TEST_ENDPOINT", "localhost:9000")
	t.Setenv("TEST_USE_SSL", "false")
	t.Setenv("TEST_MAX", "10MB")

	env := &storage.Env{
		Provider:        "TEST_PROVIDER",
		Endpoint:        "TEST_ENDPOINT",
		UseSSL:          "TEST_USE_SSL",
		MaxDownloadSize: "TEST_MAX",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderS3 {
		t.Errorf("provider: got %s, want s3", cfg.Provider)
	}
	if cfg.Endpoint != "localhost:9000" {
		t.Errorf("endpoint: got %s, want localhost:9000", cfg.Endpoint)
	}
	if cfg.SSL() {
		t.Error("ssl should be disabled by env override")
	}
	if got := cfg.MaxDownloadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max download size: got %d, want 10MB", got)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "gcs"},
			wantErr: "unknown provider",
		},
		{
			name:    "invalid max download size",
			cfg:     storage.Config{MaxDownloadSize: "lots"},
			wantErr: "invalid max_download_size",
		},
		{
			name: "missing credentials are accepted",
			cfg:  storage.Config{Provider: storage.ProviderAzure},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	off := false
	base := storage.Config{
		Provider:       storage.ProviderSupabase,
		URL:            "https://base.supabase.co",
		ServiceRoleKey: "base-key",
	}

	overlay := storage.Config{ServiceRoleKey: "overlay-key", UseSSL: &off}
	base.Merge(&overlay)

	if base.URL != "https://base.supabase.co" {
		t.Errorf("url should remain, got %s", base.URL)
	}
	if base.ServiceRoleKey != "overlay-key" {
		t.Errorf("service_role_key: got %s, want overlay-key", base.ServiceRoleKey)
	}
	if base.SSL() {
		t.Error("use_ssl overlay not applied")
	}
}
