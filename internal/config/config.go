package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/encoding"
	"golang.org/x/text/language"

	"msgsimple/pkg/properties"
)

type Config struct {
	// Files are message files in lookup priority order.
	Files    []string
	Encoding string

	CatalogDir    string
	Locale        string
	DefaultLocale string

	DatabaseURL     string
	DatabaseCatalog string
	MigrationsPath  string

	enc encoding.Encoding
}

// Load reads the configuration from the environment, after an optional .env
// file, and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Files:           splitList(os.Getenv("MSGSIMPLE_FILES")),
		Encoding:        os.Getenv("MSGSIMPLE_ENCODING"),
		CatalogDir:      os.Getenv("MSGSIMPLE_CATALOG_DIR"),
		Locale:          os.Getenv("MSGSIMPLE_LOCALE"),
		DefaultLocale:   os.Getenv("MSGSIMPLE_DEFAULT_LOCALE"),
		DatabaseURL:     os.Getenv("MSGSIMPLE_DATABASE_URL"),
		DatabaseCatalog: os.Getenv("MSGSIMPLE_DATABASE_CATALOG"),
		MigrationsPath:  os.Getenv("MSGSIMPLE_MIGRATIONS_PATH"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FileEncoding returns the resolved encoding for message files.
func (c *Config) FileEncoding() encoding.Encoding {
	return c.enc
}

// validate fills defaults and checks every setting.
func (c *Config) validate() error {
	if len(c.Files) == 0 {
		c.Files = []string{filepath.Join("messages", "messages.properties")}
	}
	for _, f := range c.Files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".properties", ".env":
		default:
			return fmt.Errorf("config: MSGSIMPLE_FILES: unsupported file type %q (want .properties or .env)", f)
		}
	}

	if strings.TrimSpace(c.Encoding) == "" {
		c.Encoding = "utf-8"
	}
	enc, err := properties.EncodingByName(c.Encoding)
	if err != nil {
		return fmt.Errorf("config: MSGSIMPLE_ENCODING: %w", err)
	}
	c.enc = enc

	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	for name, tag := range map[string]string{"MSGSIMPLE_LOCALE": c.Locale, "MSGSIMPLE_DEFAULT_LOCALE": c.DefaultLocale} {
		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("config: %s invalid (%q): %w", name, tag, err)
		}
	}

	if c.DatabaseCatalog == "" {
		c.DatabaseCatalog = "default"
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "migrations"
	}
	if c.DatabaseURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: MSGSIMPLE_DATABASE_URL invalid (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: MSGSIMPLE_DATABASE_URL invalid (%q): missing scheme or host", c.DatabaseURL)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
