package config

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetsheet/pkg/artifact"
	"github.com/matzehuels/magnetsheet/pkg/cache"
	"github.com/matzehuels/magnetsheet/pkg/notify"
)

// NewCache opens the configured cache. The file cache defaults to the
// user cache directory.
func (c Config) NewCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisURL)
	}

	dir := c.Cache.Dir
	if dir == "" {
		d, err := cache.DefaultDir(AppName)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// NewKeyer returns the cache keyer, scoped when a prefix is set.
func (c Config) NewKeyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// NewStore opens the configured artifact store.
func (c Config) NewStore(ctx context.Context) (artifact.Store, error) {
	s := c.Store
	switch s.Backend {
	case StoreGridFS:
		return artifact.NewGridFSStore(ctx, artifact.GridFSConfig{
			URI:      s.MongoURI,
			Database: s.Database,
			Bucket:   s.Bucket,
			BaseURL:  s.BaseURL,
		})
	case StoreUpload:
		return artifact.NewUploadStore(s.UploadURL, s.UploadToken)
	}
	return artifact.NewLocalStore(s.Dir, s.BaseURL)
}

// NewTransport returns the configured mail transport.
func (c Config) NewTransport(logger *log.Logger) notify.Transport {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := c.Mail
	switch m.Transport {
	case MailSMTP:
		return notify.NewSMTPTransport(notify.SMTPConfig{
			Host:     m.SMTPHost,
			Port:     m.SMTPPort,
			Username: m.SMTPUsername,
			Password: m.SMTPPassword,
			SSL:      m.SMTPSSL,
		})
	case MailSendGrid:
		return notify.NewSendGridTransport(m.SendGridAPIKey)
	}
	return &notify.LogTransport{Logger: logger}
}

// NewNotifier returns a notifier for the configured transport and
// recipients.
func (c Config) NewNotifier(logger *log.Logger) *notify.Notifier {
	from := c.Mail.From
	if from == "" {
		from = AppName + "@localhost"
	}
	to := c.Mail.To
	if len(to) == 0 && (c.Mail.Transport == MailLog || c.Mail.Transport == "") {
		to = []string{"print-shop@localhost"}
	}
	return notify.New(c.NewTransport(logger), from, to, logger)
}
