// Package envfile reads messages from dotenv-style KEY=value files.
package envfile

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"msgsimple/pkg/msgbundle"
)

// FromFile parses the dotenv file at path into a message source. Quoting and
// escaping follow the dotenv rules implemented by godotenv.
func FromFile(path string) (*msgbundle.MapSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", msgbundle.ErrInvalidArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", msgbundle.ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	messages, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", msgbundle.ErrIO, path, err)
	}
	return msgbundle.NewMapSource(messages), nil
}
