// Package env loads KEY=VALUE files into the process environment.
package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Load reads the given files (e.g. ".env") and sets an environment variable for each entry.
// Variables already set in the environment win over the files.
// Missing files are skipped; that is not an error.
func Load(paths ...string) error {
	for _, p := range paths {
		err := godotenv.Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
