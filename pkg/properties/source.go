// Package properties provides a msgbundle.MessageSource backed by a
// Java-style .properties file.
//
// Files are decoded as UTF-8 unless another encoding is given with
// WithEncoding. Property expansion (${key}) is disabled: values are returned
// exactly as the format defines them.
package properties

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	javaprops "github.com/magiconair/properties"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"msgsimple/pkg/msgbundle"
)

var _ msgbundle.MessageSource = (*Source)(nil)

// Source is an immutable set of messages read from a properties file.
type Source struct {
	messages map[string]string
}

// Option configures how a properties file is read.
type Option func(*options)

type options struct {
	enc encoding.Encoding
}

// WithEncoding decodes the input with enc instead of UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc != nil {
			o.enc = enc
		}
	}
}

// EncodingByName returns the encoding registered under name, such as
// "utf-8", "iso-8859-1" or "shift_jis". IANA names take precedence over the
// WHATWG labels, so "iso-8859-1" is true Latin-1 rather than windows-1252.
func EncodingByName(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown encoding %q", msgbundle.ErrInvalidArgument, name)
	}
	return enc, nil
}

// FromFile reads the properties file at path.
func FromFile(path string, opts ...Option) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", msgbundle.ErrInvalidArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	s, err := FromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FromFS reads the properties resource name from fsys. A leading slash in
// name is ignored, so "/i18n/messages.properties" and
// "i18n/messages.properties" are the same resource.
func FromFS(fsys fs.FS, name string, opts ...Option) (*Source, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: nil file system", msgbundle.ErrInvalidArgument)
	}
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return nil, fmt.Errorf("%w: empty resource path", msgbundle.ErrInvalidArgument)
	}

	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("%w: %s: %w", msgbundle.ErrResourceNotFound, name, err)
		}
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	s, err := FromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// FromReader reads properties from r until EOF. The caller keeps ownership
// of r.
func FromReader(r io.Reader, opts ...Option) (*Source, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", msgbundle.ErrInvalidArgument)
	}
	o := options{enc: unicode.UTF8}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	text, err := decode(raw, o.enc)
	if err != nil {
		return nil, err
	}

	loader := javaprops.Loader{Encoding: javaprops.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	return &Source{messages: p.Map()}, nil
}

// decode converts raw to UTF-8. The x/text decoders substitute U+FFFD for
// malformed input, so UTF-8 is validated up front to surface it as an error.
func decode(raw []byte, enc encoding.Encoding) ([]byte, error) {
	if enc == unicode.UTF8 || enc == unicode.UTF8BOM {
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: malformed UTF-8 input", msgbundle.ErrIO)
		}
		enc = unicode.UTF8BOM
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", msgbundle.ErrIO, err)
	}
	return out, nil
}

func (s *Source) Lookup(key string) (string, bool) {
	v, ok := s.messages[key]
	return v, ok
}

// Len returns the number of messages.
func (s *Source) Len() int { return len(s.messages) }

// Keys returns the message keys in sorted order.
func (s *Source) Keys() []string {
	return slices.Sorted(maps.Keys(s.messages))
}
