// Package config loads magnetsheet settings from a TOML file and the
// environment, and builds the cache, store and mail transport they name.
//
// The file lives at $XDG_CONFIG_HOME/magnetsheet/config.toml (falling back
// to ~/.config). Every setting has a default, so a missing file is fine.
// Secrets can be left out of the file and supplied through the environment:
//
//	MAGNETSHEET_SMTP_PASSWORD  mail.smtp_password
//	SENDGRID_API_KEY           mail.sendgrid_api_key
//	MAGNETSHEET_UPLOAD_TOKEN   store.upload_token
//	MAGNETSHEET_MONGO_URI      store.mongo_uri
//	MAGNETSHEET_REDIS_URL      cache.redis_url
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "magnetsheet"

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreLocal  = "local"
	StoreGridFS = "gridfs"
	StoreUpload = "upload"

	MailSMTP     = "smtp"
	MailSendGrid = "sendgrid"
	MailLog      = "log"
)

// Config is the whole settings file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Mail   MailConfig   `toml:"mail"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds sheet rendering defaults.
type RenderConfig struct {
	Workers   int    `toml:"workers"` // 0 means one per CPU
	Mode      string `toml:"mode"`    // stacked or pages
	OutputDir string `toml:"output_dir"`
	CutList   bool   `toml:"cutlist"`
}

// CacheConfig selects the sheet cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects where finished sheets are kept.
type StoreConfig struct {
	Backend     string `toml:"backend"`
	Dir         string `toml:"dir"`
	BaseURL     string `toml:"base_url"`
	MongoURI    string `toml:"mongo_uri"`
	Database    string `toml:"database"`
	Bucket      string `toml:"bucket"`
	UploadURL   string `toml:"upload_url"`
	UploadToken string `toml:"upload_token"`
}

// MailConfig selects how the shop is notified.
type MailConfig struct {
	Transport      string   `toml:"transport"`
	From           string   `toml:"from"`
	To             []string `toml:"to"`
	SMTPHost       string   `toml:"smtp_host"`
	SMTPPort       int      `toml:"smtp_port"`
	SMTPUsername   string   `toml:"smtp_username"`
	SMTPPassword   string   `toml:"smtp_password"`
	SMTPSSL        bool     `toml:"smtp_ssl"`
	SendGridAPIKey string   `toml:"sendgrid_api_key"`
}

// ServerConfig configures the intake server.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MaxPhotoBytes int64  `toml:"max_photo_bytes"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Render: RenderConfig{Mode: "stacked", OutputDir: "."},
		Cache:  CacheConfig{Backend: CacheFile},
		Store:  StoreConfig{Backend: StoreLocal, Dir: "sheets", Database: AppName},
		Mail:   MailConfig{Transport: MailLog},
		Server: ServerConfig{Addr: ":8080", MaxPhotoBytes: 64 << 20},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/magnetsheet/config.toml, or
// ~/.config/magnetsheet/config.toml when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path reads DefaultPath and tolerates it missing;
// an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		cfg = Default()
	case os.IsNotExist(err):
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown settings in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Mail.SMTPPassword, "MAGNETSHEET_SMTP_PASSWORD")
	set(&c.Mail.SendGridAPIKey, "SENDGRID_API_KEY")
	set(&c.Store.UploadToken, "MAGNETSHEET_UPLOAD_TOKEN")
	set(&c.Store.MongoURI, "MAGNETSHEET_MONGO_URI")
	set(&c.Cache.RedisURL, "MAGNETSHEET_REDIS_URL")
}

// Validate checks that every selected backend has what it needs.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	switch c.Render.Mode {
	case "", "stacked", "pages":
	default:
		return bad("render.mode must be stacked or pages, got %q", c.Render.Mode)
	}
	if c.Render.Workers < 0 {
		return bad("render.workers cannot be negative")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone, "":
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return bad("cache.redis_url is required for the redis cache")
		}
	default:
		return bad("unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreLocal, "":
	case StoreGridFS:
		if c.Store.MongoURI == "" {
			return bad("store.mongo_uri is required for the gridfs store")
		}
	case StoreUpload:
		if err := errors.ValidateURL(c.Store.UploadURL); err != nil {
			return bad("store.upload_url: %s", errors.UserMessage(err))
		}
	default:
		return bad("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.BaseURL != "" {
		if err := errors.ValidateURL(c.Store.BaseURL); err != nil {
			return bad("store.base_url: %s", errors.UserMessage(err))
		}
	}

	switch c.Mail.Transport {
	case MailLog, "":
	case MailSMTP:
		if c.Mail.SMTPHost == "" {
			return bad("mail.smtp_host is required for smtp")
		}
	case MailSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return bad("mail.sendgrid_api_key (or SENDGRID_API_KEY) is required for sendgrid")
		}
	default:
		return bad("unknown mail transport %q", c.Mail.Transport)
	}
	if c.Mail.Transport != MailLog && c.Mail.Transport != "" && (c.Mail.From == "" || len(c.Mail.To) == 0) {
		return bad("mail.from and mail.to are required to send notifications")
	}

	if c.Server.MaxPhotoBytes < 0 {
		return bad("server.max_photo_bytes cannot be negative")
	}
	return nil
}
