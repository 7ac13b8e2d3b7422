package dbutil

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizePostgresRewritesLimitAndBinds(t *testing.T) {
	db := sqlx.NewDb(nil, "postgres")
	query, args := Finalize(db, "SELECT id FROM users WHERE (email=?) LIMIT ?,?", []interface{}{"a@b.c", 0, 1})
	require.Equal(t, "SELECT id FROM users WHERE (email=$1) LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{"a@b.c", 1, 0}, args)
}

func TestFinalizeWithoutLimitKeepsArgs(t *testing.T) {
	db := sqlx.NewDb(nil, "postgres")
	query, args := Finalize(db, "INSERT INTO users (id,email) VALUES (?,?)", []interface{}{"1", "x"})
	require.Equal(t, "INSERT INTO users (id,email) VALUES ($1,$2)", query)
	require.Equal(t, []interface{}{"1", "x"}, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.True(t, IsConflict(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(errors.New("boom")))
	require.False(t, IsConflict(nil))
}

func TestIsNoRows(t *testing.T) {
	require.True(t, IsNoRows(fmt.Errorf("get: %w", sql.ErrNoRows)))
	require.False(t, IsNoRows(errors.New("boom")))
}
