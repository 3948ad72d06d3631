package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadintake/internal/domain/lead"
)

func TestSeed(t *testing.T) {
	store := lead.NewMemoryStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	n, err := seed(context.Background(), store, 10, now)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	leads, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 10)

	assert.Equal(t, "Lead1", leads[0].FirstName)
	assert.Equal(t, "United States", leads[0].Citizenship)
	assert.Equal(t, "Mexico", leads[1].Citizenship)
	assert.Equal(t, lead.StatePending, leads[0].State)
	assert.Equal(t, lead.StateReachedOut, leads[1].State)
	assert.Equal(t, lead.StatePending, leads[3].State)
	assert.True(t, leads[9].SubmittedAt.Equal(now))
	assert.True(t, leads[0].SubmittedAt.Before(leads[1].SubmittedAt))

	counts, err := store.CountByState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts[lead.StatePending])
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()

	count, err := cmd.Flags().GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 200, count)

	require.NoError(t, cmd.Flags().Set("count", "5"))
	count, _ = cmd.Flags().GetInt("count")
	assert.Equal(t, 5, count)
}
