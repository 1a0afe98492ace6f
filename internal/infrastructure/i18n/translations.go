package i18n

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nicksnyder/go-i18n/v2/i18n/template"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"msgsimple/pkg/msgbundle"
)

// Ensure Source implements msgbundle.MessageSource.
var _ msgbundle.MessageSource = (*Source)(nil)

// Source is a message source over go-i18n TOML catalogs (active.<lang>.toml).
type Source struct {
	bundle    *i18n.Bundle
	languages []string
	logger    zerolog.Logger
}

// NewSource loads the given catalog files from fsys and resolves messages for
// locale, falling back to defaultLocale. Unparseable locales fall back to
// English.
func NewSource(fsys fs.FS, locale, defaultLocale string, files ...string) (*Source, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: nil file system", msgbundle.ErrInvalidArgument)
	}

	defaultTag := parseTag(defaultLocale)
	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s: %w", msgbundle.ErrResourceNotFound, file, err)
			}
			return nil, fmt.Errorf("%w: load %s: %w", msgbundle.ErrIO, file, err)
		}
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, parseTag(locale).String())
	}
	languages = append(languages, defaultTag.String())

	return &Source{
		bundle:    bundle,
		languages: languages,
		logger:    log.With().Str("component", "i18n").Logger(),
	}, nil
}

// CatalogFiles returns the active.<lang>.toml names present in fsys, so that
// a directory of catalogs can be loaded without listing it by hand.
func CatalogFiles(fsys fs.FS) ([]string, error) {
	files, err := fs.Glob(fsys, "active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	return files, nil
}

// Lookup returns the message identified by key exactly as stored: catalog
// text is not executed as a template.
func (s *Source) Lookup(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	localizer := i18n.NewLocalizer(s.bundle, s.languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      key,
		TemplateParser: template.IdentityParser{},
	})
	if err != nil {
		var notFound *i18n.MessageNotFoundErr
		if errors.As(err, &notFound) {
			s.logger.Debug().Str("key", key).Strs("locales", s.languages).Msg("message not in catalog")
		} else {
			s.logger.Warn().Err(err).Str("key", key).Strs("locales", s.languages).Msg("localize failed")
		}
		return "", false
	}
	return msg, true
}

func parseTag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}
