package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/magnetsheet/pkg/artifact"
	"github.com/matzehuels/magnetsheet/pkg/cache"
	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/notify"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := Default()
	if cfg.Render.Mode != want.Render.Mode || cfg.Cache.Backend != want.Cache.Backend ||
		cfg.Store.Backend != want.Store.Backend || cfg.Mail.Transport != want.Mail.Transport ||
		cfg.Server.Addr != want.Server.Addr {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load of missing explicit path = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[render]
workers = 4
mode = "pages"

[store]
backend = "local"
dir = "out"
base_url = "https://files.example.com"

[mail]
transport = "smtp"
from = "shop@example.com"
to = ["print@example.com"]
smtp_host = "smtp.example.com"
smtp_port = 465
smtp_ssl = true

[server]
addr = ":9090"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Render.Workers != 4 || cfg.Render.Mode != "pages" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Store.Dir != "out" || cfg.Store.BaseURL != "https://files.example.com" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Mail.SMTPPort != 465 || !cfg.Mail.SMTPSSL || len(cfg.Mail.To) != 1 {
		t.Errorf("mail = %+v", cfg.Mail)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.MaxPhotoBytes != 64<<20 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("unset cache backend = %q, want default %q", cfg.Cache.Backend, CacheFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"

[mail]
transport = "sendgrid"
from = "shop@example.com"
to = ["print@example.com"]
`)
	t.Setenv("MAGNETSHEET_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("MAGNETSHEET_SMTP_PASSWORD", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.Cache.RedisURL)
	}
	if cfg.Mail.SendGridAPIKey != "sg-key" || cfg.Mail.SMTPPassword != "secret" {
		t.Errorf("mail secrets = %q, %q", cfg.Mail.SendGridAPIKey, cfg.Mail.SMTPPassword)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[render]\ncolour = \"red\"\n"},
		{"bad toml", "[render\n"},
		{"bad mode", "[render]\nmode = \"tiled\"\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n"},
		{"unknown store", "[store]\nbackend = \"s3\"\n"},
		{"upload without url", "[store]\nbackend = \"upload\"\n"},
		{"gridfs without uri", "[store]\nbackend = \"gridfs\"\n"},
		{"smtp without host", "[mail]\ntransport = \"smtp\"\nfrom = \"a@b.c\"\nto = [\"d@e.f\"]\n"},
		{"smtp without recipients", "[mail]\ntransport = \"smtp\"\nsmtp_host = \"h\"\n"},
		{"negative workers", "[render]\nworkers = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAGNETSHEET_REDIS_URL", "")
			t.Setenv("MAGNETSHEET_MONGO_URI", "")
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "magnetsheet", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestBuilders(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := Default()
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Store.Dir = filepath.Join(dir, "sheets")

	c, err := cfg.NewCache(ctx)
	if err != nil {
		t.Fatalf("NewCache error: %v", err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("NewCache = %T, want file cache at %s", c, cfg.Cache.Dir)
	}

	cfg.Cache.Backend = CacheNone
	if c, _ := cfg.NewCache(ctx); c != cache.NewNullCache() {
		t.Errorf("NewCache(none) = %T, want NullCache", c)
	}

	s, err := cfg.NewStore(ctx)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if _, ok := s.(*artifact.LocalStore); !ok {
		t.Errorf("NewStore = %T, want *artifact.LocalStore", s)
	}

	cfg.Store.Backend = StoreUpload
	cfg.Store.UploadURL = "https://upload.example.com/files"
	if s, err := cfg.NewStore(ctx); err != nil || s.Kind() != "upload" {
		t.Errorf("NewStore(upload) = %v, %v", s, err)
	}

	transports := map[string]string{MailLog: "log", MailSMTP: "smtp", MailSendGrid: "sendgrid"}
	for name, want := range transports {
		cfg.Mail.Transport = name
		if got := cfg.NewTransport(nil).Name(); got != want {
			t.Errorf("NewTransport(%s).Name() = %q", name, got)
		}
	}

	cfg.Mail = Default().Mail
	n := cfg.NewNotifier(nil)
	if _, ok := n.Transport.(*notify.LogTransport); !ok || len(n.To) == 0 || n.From == "" {
		t.Errorf("NewNotifier = %+v, want log transport with default addresses", n)
	}
}

func TestSMTPPortFollowsSSL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"ssl", "smtp_ssl = true", notify.PortSSL},
		{"starttls", "", notify.PortStartTLS},
		{"explicit", "smtp_ssl = true\nsmtp_port = 2465", 2465},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, `
[mail]
transport = "smtp"
from = "shop@example.com"
to = ["print@example.com"]
smtp_host = "smtp.example.com"
`+tt.body+"\n")
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			tr, ok := cfg.NewTransport(nil).(*notify.SMTPTransport)
			if !ok {
				t.Fatalf("NewTransport = %T, want *notify.SMTPTransport", cfg.NewTransport(nil))
			}
			if tr.Port() != tt.want {
				t.Errorf("port = %d, want %d", tr.Port(), tt.want)
			}
		})
	}
}

func TestNewKeyer(t *testing.T) {
	cfg := Default()
	plain := cfg.NewKeyer().UploadKey("local", "f00")
	cfg.Cache.Prefix = "shop:"
	scoped := cfg.NewKeyer().UploadKey("local", "f00")
	if scoped != "shop:"+plain {
		t.Errorf("scoped key = %q, plain = %q", scoped, plain)
	}
}
