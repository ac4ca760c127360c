package memorystorage

import (
	"context"
)

// MemoryStorage keeps the users list in memory. It is used when neither a
// users file nor a database is configured, and in tests.
type MemoryStorage struct {
	users []string
}

func New(users ...string) (*MemoryStorage, error) {
	return &MemoryStorage{
		users: append([]string{}, users...),
	}, nil
}

func (theStorage *MemoryStorage) LoadUsers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return append([]string{}, theStorage.users...), nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
