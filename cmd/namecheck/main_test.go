package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippedUsersFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("data", "users.json"))
	require.NoError(t, err)

	assert.JSONEq(t, `[
		"Luc O'Connor",
		"Sara O'Malley",
		"Renee O'Connor",
		"María López",
		"T'Challa Udaku",
		"Aminah Bello",
		"Jason Smith",
		"Noah Johnson",
		"Chidera Obi"
	]`, string(data))
}

func TestMigrationsPresent(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}
