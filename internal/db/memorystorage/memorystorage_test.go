package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test(t *testing.T) {
	t.Run("The base memorystorage package test", func(t *testing.T) {
		seed := []string{"Aminah Bello", "Jason Smith"}
		theStorage, err := New(seed...)
		assert.NoError(t, err, "The memorystorage.New() should not return error")

		users, err := theStorage.LoadUsers(context.Background())
		assert.NoError(t, err, "The `theStorage.LoadUsers()` should not return error")
		assert.Equal(t, []string{"Aminah Bello", "Jason Smith"}, users)

		users[0] = "changed"
		seed[1] = "changed"
		users, err = theStorage.LoadUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Aminah Bello", "Jason Smith"}, users, "callers must not be able to mutate the stored list")

		err = theStorage.Ping(context.Background())
		assert.NoError(t, err, "The memorystorage.Ping() should not return error")

		err = theStorage.Close()
		assert.NoError(t, err, "The memorystorage.Close() should not return error")
	})

	t.Run("canceled context", func(t *testing.T) {
		theStorage, err := New("Noah Johnson")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = theStorage.LoadUsers(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
