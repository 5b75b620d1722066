package services

import (
	"context"
	"testing"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockSeversFriendshipAndRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()
	c := f.users.addUser()

	f.edges.addEdge(a, b)
	_, err := f.friends.SendRequest(ctx, c, a, "")
	require.NoError(t, err)

	require.NoError(t, f.blocksSvc.Block(ctx, a, b))

	_, err = f.edges.GetByPair(ctx, a, b)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err), "friendship edge is severed")

	blocked, err := f.blocksSvc.IsBlocked(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Unrelated pending requests survive.
	pending, err := f.friends.ListPendingRequests(ctx, a)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestBlockRemovesPendingRequestsBetweenPair(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	_, err := f.friends.SendRequest(ctx, b, a, "")
	require.NoError(t, err)

	require.NoError(t, f.blocksSvc.Block(ctx, a, b))

	pending, err := f.friends.ListPendingRequests(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestBlockSelf(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()

	err := f.blocksSvc.Block(context.Background(), a, a)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))
}

func TestBlockTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	require.NoError(t, f.blocksSvc.Block(ctx, a, b))
	err := f.blocksSvc.Block(ctx, a, b)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestUnblockAbsent(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()

	err := f.blocksSvc.Unblock(context.Background(), a, b)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err), "unblocking an absent block must not silently succeed")
}

func TestUnblockAllowsNewRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	require.NoError(t, f.blocksSvc.Block(ctx, a, b))
	require.NoError(t, f.blocksSvc.Unblock(ctx, a, b))

	_, err := f.friends.SendRequest(ctx, b, a, "")
	assert.NoError(t, err)
}
