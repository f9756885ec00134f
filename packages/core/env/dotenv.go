package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv parses a .env file and returns its key-value pairs.
// The process environment is never modified.
func LoadDotEnv(path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("cannot open env file: %s is a directory", path)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return vars, nil
}
