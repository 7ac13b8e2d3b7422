package job

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mdesign/internal/testutil"
)

func TestWALCheckpointJob(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	_, err := conn.Exec(conn.Rebind("INSERT INTO projects (id, name, data, owner_id, ctime, mtime) VALUES (?, ?, ?, ?, ?, ?)"),
		"p1", "name", "null", "u1", 1, 1)
	require.NoError(t, err)

	j := NewWALCheckpointJob(conn)
	require.Equal(t, "sqlite_wal_checkpoint", j.Name())
	require.NoError(t, j.Run(context.Background()))
}

func TestWALCheckpointJobWithoutDB(t *testing.T) {
	require.NoError(t, NewWALCheckpointJob(nil).Run(context.Background()))
}
