package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/encoding"

	"msgsimple/internal/config"
	"msgsimple/internal/infrastructure/database"
	"msgsimple/internal/infrastructure/envfile"
	"msgsimple/internal/infrastructure/i18n"
	"msgsimple/pkg/msgbundle"
	"msgsimple/pkg/properties"
)

var (
	_ msgbundle.Provider = (*FileProvider)(nil)
	_ msgbundle.Provider = (*CatalogProvider)(nil)
	_ msgbundle.Provider = (*DatabaseProvider)(nil)
)

// FileProvider builds a bundle from message files in priority order.
// .env files are read as dotenv, everything else as properties.
type FileProvider struct {
	Files    []string
	Encoding encoding.Encoding
}

func (p *FileProvider) Bundle() (*msgbundle.MessageBundle, error) {
	b := msgbundle.NewBuilder()
	for _, path := range p.Files {
		src, err := p.open(path)
		if err != nil {
			return nil, err
		}
		b.AddSource(src)
	}
	return b.Build(), nil
}

func (p *FileProvider) open(path string) (msgbundle.MessageSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".env") {
		return envfile.FromFile(path)
	}
	var opts []properties.Option
	if p.Encoding != nil {
		opts = append(opts, properties.WithEncoding(p.Encoding))
	}
	return properties.FromFile(path, opts...)
}

// CatalogProvider builds a bundle from the go-i18n TOML catalogs in Dir.
type CatalogProvider struct {
	Dir           string
	Locale        string
	DefaultLocale string
}

func (p *CatalogProvider) Bundle() (*msgbundle.MessageBundle, error) {
	fsys := os.DirFS(p.Dir)
	files, err := i18n.CatalogFiles(fsys)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no active.*.toml catalog in %s", msgbundle.ErrResourceNotFound, p.Dir)
	}
	src, err := i18n.NewSource(fsys, p.Locale, p.DefaultLocale, files...)
	if err != nil {
		return nil, err
	}
	return msgbundle.NewBuilder().AddSource(src).Build(), nil
}

const defaultDatabaseTimeout = 10 * time.Second

// DatabaseProvider builds a bundle from a snapshot of one database catalog.
// Ctx bounds the snapshot query; nil means context.Background().
type DatabaseProvider struct {
	Ctx     context.Context
	Repo    *database.MessageRepository
	Catalog string
	Timeout time.Duration
}

func (p *DatabaseProvider) Bundle() (*msgbundle.MessageBundle, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultDatabaseTimeout
	}
	parent := p.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	src, err := database.NewMessageSource(ctx, p.Repo, p.Catalog)
	if err != nil {
		return nil, err
	}
	return msgbundle.NewBuilder().AddSource(src).Build(), nil
}

// Discover returns the providers enabled by cfg. repo may be nil when no
// database is configured; ctx bounds the database snapshot.
func Discover(ctx context.Context, cfg *config.Config, repo *database.MessageRepository) msgbundle.Discoverer {
	return func() []msgbundle.Provider {
		ps := []msgbundle.Provider{
			&FileProvider{Files: cfg.Files, Encoding: cfg.FileEncoding()},
		}
		if cfg.CatalogDir != "" {
			ps = append(ps, &CatalogProvider{
				Dir:           cfg.CatalogDir,
				Locale:        cfg.Locale,
				DefaultLocale: cfg.DefaultLocale,
			})
		}
		if repo != nil {
			ps = append(ps, &DatabaseProvider{Ctx: ctx, Repo: repo, Catalog: cfg.DatabaseCatalog})
		}
		return ps
	}
}

var providerTypes = map[string]reflect.Type{
	"files":    reflect.TypeFor[*FileProvider](),
	"catalog":  reflect.TypeFor[*CatalogProvider](),
	"database": reflect.TypeFor[*DatabaseProvider](),
}

// ProviderType maps a provider name ("files", "catalog", "database") to its
// registry identity.
func ProviderType(name string) (reflect.Type, bool) {
	t, ok := providerTypes[strings.ToLower(name)]
	return t, ok
}
