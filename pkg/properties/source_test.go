package properties_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"msgsimple/pkg/msgbundle"
	"msgsimple/pkg/properties"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.properties")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestFromFileRoundTrip(t *testing.T) {
	path := writeFile(t, []byte(strings.Join([]string{
		"# comment",
		"! another comment",
		"greeting=Hello",
		"colon:separated",
		"space separated",
		"  padded   =   value",
		"multi=first \\",
		"      second",
		"escaped=caf\\u00e9",
		"expansion=${greeting}",
		"empty=",
	}, "\n")))

	s, err := properties.FromFile(path)
	require.NoError(t, err)

	tests := []struct {
		key  string
		want string
	}{
		{"greeting", "Hello"},
		{"colon", "separated"},
		{"space", "separated"},
		{"padded", "value"},
		{"multi", "first second"},
		{"escaped", "café"},
		{"expansion", "${greeting}"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := s.Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, len(tests), s.Len())
}

func TestNonLatinContent(t *testing.T) {
	path := writeFile(t, []byte("greeting=こんにちは世界\nrussian=Привет\n"))

	s, err := properties.FromFile(path)
	require.NoError(t, err)

	got, _ := s.Lookup("greeting")
	assert.Equal(t, "こんにちは世界", got)
	got, _ = s.Lookup("russian")
	assert.Equal(t, "Привет", got)
}

func TestByteOrderMarkIsStripped(t *testing.T) {
	path := writeFile(t, append([]byte{0xEF, 0xBB, 0xBF}, "greeting=Hello\n"...))

	s, err := properties.FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"greeting"}, s.Keys())
}

func TestExplicitEncoding(t *testing.T) {
	// "Grüße" in ISO-8859-1.
	path := writeFile(t, []byte("greeting=Gr\xfc\xdfe\n"))

	s, err := properties.FromFile(path, properties.WithEncoding(charmap.ISO8859_1))
	require.NoError(t, err)
	got, _ := s.Lookup("greeting")
	assert.Equal(t, "Grüße", got)

	_, err = properties.FromFile(path)
	assert.ErrorIs(t, err, msgbundle.ErrIO, "latin-1 bytes are not valid UTF-8")
}

func TestEncodingByName(t *testing.T) {
	tests := []struct {
		name string
		want encoding.Encoding
	}{
		{"ISO-8859-1", charmap.ISO8859_1},
		{" latin1 ", charmap.ISO8859_1},
		{"windows-1252", charmap.Windows1252},
		{"UTF-8", unicode.UTF8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := properties.EncodingByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, enc)
		})
	}

	_, err := properties.EncodingByName("klingon")
	assert.ErrorIs(t, err, msgbundle.ErrInvalidArgument)
}

func TestLatin1ByNameKeepsC1Controls(t *testing.T) {
	path := writeFile(t, []byte("k=\x80\n"))
	enc, err := properties.EncodingByName("iso-8859-1")
	require.NoError(t, err)

	s, err := properties.FromFile(path, properties.WithEncoding(enc))
	require.NoError(t, err)
	got, _ := s.Lookup("k")
	assert.Equal(t, "\u0080", got)
}

func TestFromFileErrors(t *testing.T) {
	s, err := properties.FromFile("")
	assert.ErrorIs(t, err, msgbundle.ErrInvalidArgument)
	assert.Nil(t, s)

	s, err = properties.FromFile(filepath.Join(t.TempDir(), "nope.properties"))
	assert.ErrorIs(t, err, msgbundle.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Nil(t, s)

	s, err = properties.FromFile(t.TempDir())
	assert.ErrorIs(t, err, msgbundle.ErrIO, "a directory cannot be read")
	assert.Nil(t, s)
}

func TestMalformedEscapeIsAnIOError(t *testing.T) {
	path := writeFile(t, []byte("bad=\\uZZZZ\n"))

	s, err := properties.FromFile(path)
	assert.ErrorIs(t, err, msgbundle.ErrIO)
	assert.Nil(t, s)
}

func TestFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"i18n/messages.properties": {Data: []byte("greeting=Hello\nfarewell=Bye\n")},
	}

	for _, name := range []string{"i18n/messages.properties", "/i18n/messages.properties"} {
		s, err := properties.FromFS(fsys, name)
		require.NoError(t, err, name)
		got, ok := s.Lookup("farewell")
		assert.True(t, ok)
		assert.Equal(t, "Bye", got)
	}
}

func TestFromFSErrors(t *testing.T) {
	fsys := fstest.MapFS{}

	_, err := properties.FromFS(nil, "messages.properties")
	assert.ErrorIs(t, err, msgbundle.ErrInvalidArgument)

	_, err = properties.FromFS(fsys, "")
	assert.ErrorIs(t, err, msgbundle.ErrInvalidArgument)

	_, err = properties.FromFS(fsys, "missing.properties")
	assert.ErrorIs(t, err, msgbundle.ErrResourceNotFound)
	assert.NotErrorIs(t, err, msgbundle.ErrIO)
}

func TestFromFSTestdata(t *testing.T) {
	s, err := properties.FromFS(os.DirFS("testdata"), "messages.properties")
	require.NoError(t, err)

	b := msgbundle.NewBuilder().AddSource(s).Build()
	assert.Equal(t, "Hello", b.Lookup("greeting"))
	assert.Equal(t, "missing", b.Lookup("missing"))
}

type failingReader struct{}

var errRead = errors.New("disk on fire")

func (failingReader) Read([]byte) (int, error) { return 0, errRead }

func TestFromReaderErrors(t *testing.T) {
	_, err := properties.FromReader(nil)
	assert.ErrorIs(t, err, msgbundle.ErrInvalidArgument)

	_, err = properties.FromReader(failingReader{})
	assert.ErrorIs(t, err, msgbundle.ErrIO)
	assert.ErrorIs(t, err, errRead)
}
