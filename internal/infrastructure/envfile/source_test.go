package envfile

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msgsimple/pkg/msgbundle"
)

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.env")
	content := "# messages\nGREETING=Hello\nQUOTED=\"Hello, world\"\nSINGLE='Grüße'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := FromFile(path)
	require.NoError(t, err)

	tests := map[string]string{
		"GREETING": "Hello",
		"QUOTED":   "Hello, world",
		"SINGLE":   "Grüße",
	}
	for key, want := range tests {
		got, ok := s.Lookup(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := s.Lookup("MISSING")
	assert.False(t, ok)
}

func TestFromFileErrors(t *testing.T) {
	_, err := FromFile("")
	assert.ErrorIs(t, err, msgbundle.ErrInvalidArgument)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, msgbundle.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
