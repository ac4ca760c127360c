// Package jsonfile loads the list of user names from a JSON file holding an
// array of strings. The file is read on every call, nothing is cached.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/patric-chuzhbe/namecheck/internal/db/storage"
)

type JSONFile struct {
	fileName string
}

func New(fileName string) (*JSONFile, error) {
	if fileName == "" {
		return nil, errors.New("users file name must not be empty")
	}

	return &JSONFile{fileName: fileName}, nil
}

func parseJSONFile(fileName string) ([]string, error) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	// The whole file must be a single JSON value.
	var users []string
	err = json.Unmarshal(content, &users)
	if err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	if users == nil {
		return nil, errors.New("the file does not contain a list of strings")
	}

	return users, nil
}

// LoadUsers reads and decodes the file. Any failure is reported as
// *storage.LoadError.
func (db *JSONFile) LoadUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users, err := parseJSONFile(db.fileName)
	if err != nil {
		return nil, &storage.LoadError{Source: db.fileName, Err: err}
	}

	return users, nil
}

// Ping checks that the users file is present and is a regular file.
func (db *JSONFile) Ping(ctx context.Context) error {
	info, err := os.Stat(db.fileName)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", db.fileName)
	}

	return nil
}

func (db *JSONFile) Close() error {
	return nil
}
