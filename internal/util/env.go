package util

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env from the working directory when present.
// Variables already set in the process environment win.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
