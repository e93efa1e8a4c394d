// Package source validates the input path handed to the analyzer.
package source

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUsage reports a wrong number of arguments.
	ErrUsage = errors.New("wrong number of arguments")
	// ErrNotFound reports a path that does not exist.
	ErrNotFound = errors.New("file does not exist")
	// ErrInvalidInput reports a path that is not a regular readable file.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidateArgs requires exactly one path argument.
func ValidateArgs(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected 1 file argument, got %d", ErrUsage, len(args))
	}
	return nil
}

// ValidatePath checks that path exists and is not a directory.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}
	return nil
}

// Resolve validates args and returns the file path to analyse.
func Resolve(args []string) (string, error) {
	if err := ValidateArgs(args); err != nil {
		return "", err
	}
	if err := ValidatePath(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}
