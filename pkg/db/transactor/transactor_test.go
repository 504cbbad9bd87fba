package transactor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAfterCommitWithoutTransaction(t *testing.T) {
	called := false
	AfterCommit(context.Background(), func() { called = true })
	require.True(t, called, "hook must run immediately when there is no transaction")
}

func TestAfterCommitPostponed(t *testing.T) {
	ctx, hooks := withAfterCommitHooks(context.Background())

	var order []int
	AfterCommit(ctx, func() { order = append(order, 1) })
	AfterCommit(ctx, func() { order = append(order, 2) })

	t.Log("hooks must wait for commit")
	{
		require.Empty(t, order)
	}

	t.Log("hooks run in registration order once")
	{
		hooks.run()
		hooks.run()
		require.Equal(t, []int{1, 2}, order)
	}
}
