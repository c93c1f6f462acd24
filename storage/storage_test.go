package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testHashParams keeps argon2id cheap enough for unit tests.
var testHashParams = Argon2idParams{Time: 1, MemoryKiB: 8, Parallelism: 1, KeyLen: 16, SaltLen: 8}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(
		Config{
			Driver:       DriverSQLite,
			DataDir:      t.TempDir(),
			PasswordHash: testHashParams,
		}, nil,
	)
	require.NoError(t, err)
	return s
}
