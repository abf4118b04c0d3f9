package config

import "testing"

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{
		Endpoint: "https://storage.yandexcloud.net",
		Bucket:   "bucket",
	}
	missing := cfg.MissingRequired()

	want := []string{"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_PUBLIC_BASE_URL"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d (%v)", len(want), len(missing), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected missing[%d]=%s, got %s", i, want[i], missing[i])
		}
	}
}

func TestS3ConfigDiagnostics(t *testing.T) {
	full := S3Config{
		Endpoint:        "https://storage.yandexcloud.net",
		Region:          "ru-central1",
		Bucket:          "bucket",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicBaseURL:   "https://storage.yandexcloud.net/bucket",
	}

	cases := []struct {
		name      string
		cfg       S3Config
		wantLevel string
		wantCode  string
	}{
		{"empty", S3Config{}, "INFO", "s3_not_configured"},
		{"partial", S3Config{Endpoint: full.Endpoint}, "WARN", "s3_partial_config"},
		{"ready", full, "INFO", "s3_ready"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, code, _ := tc.cfg.Diagnostics()
			if level != tc.wantLevel || code != tc.wantCode {
				t.Fatalf("Diagnostics() = %s/%s, want %s/%s", level, code, tc.wantLevel, tc.wantCode)
			}
		})
	}

	if !full.IsConfigured() {
		t.Error("full config should report IsConfigured=true")
	}
	if (S3Config{}).IsConfigured() {
		t.Error("empty config should report IsConfigured=false")
	}
}
