package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Amirhan2201/ChatLink/internal/apperrors"
	"github.com/Amirhan2201/ChatLink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequestToSelf(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()

	_, err := f.friends.SendRequest(context.Background(), a, a, "")
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))
}

func TestSendRequestMessageTooLong(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()

	long := strings.Repeat("x", models.MaxRequestMessageLen+1)
	_, err := f.friends.SendRequest(context.Background(), a, b, long)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))

	// Exactly at the limit is fine.
	_, err = f.friends.SendRequest(context.Background(), a, b, strings.Repeat("x", models.MaxRequestMessageLen))
	assert.NoError(t, err)
}

func TestSendRequestUnknownReceiver(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()

	_, err := f.friends.SendRequest(context.Background(), a, newID(), "hi")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()
	f.edges.addEdge(a, b)

	_, err := f.friends.SendRequest(context.Background(), a, b, "")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestSendRequestDuplicate(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()

	_, err := f.friends.SendRequest(context.Background(), a, b, "")
	require.NoError(t, err)

	_, err = f.friends.SendRequest(context.Background(), a, b, "")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestSendRequestReversePending(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()

	_, err := f.friends.SendRequest(context.Background(), b, a, "")
	require.NoError(t, err)

	// A pending B->A request must block A->B so two edges can never form.
	_, err = f.friends.SendRequest(context.Background(), a, b, "")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Len(t, f.requests.requests, 1, "no second request may be stored")
}

func TestSendRequestBlockedPair(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()
	require.NoError(t, f.blocksSvc.Block(context.Background(), b, a))

	_, err := f.friends.SendRequest(context.Background(), a, b, "")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestAcceptRequestCreatesCanonicalEdge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	req, err := f.friends.SendRequest(ctx, a, b, "hello")
	require.NoError(t, err)

	edge, err := f.friends.AcceptRequest(ctx, req.ID, b)
	require.NoError(t, err)

	assert.True(t, edge.UserA.Hex() < edge.UserB.Hex(), "edge endpoints must be sorted")
	assert.True(t, edge.Involves(a))
	assert.True(t, edge.Involves(b))

	// The request is gone and the edge is queryable from both sides.
	_, err = f.requests.GetRequestByID(ctx, req.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = f.edges.GetByPair(ctx, b, a)
	assert.NoError(t, err)
}

func TestAcceptRequestOnlyReceiver(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	req, err := f.friends.SendRequest(ctx, a, b, "")
	require.NoError(t, err)

	_, err = f.friends.AcceptRequest(ctx, req.ID, a)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	_, err = f.friends.AcceptRequest(ctx, req.ID, f.users.addUser())
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestAcceptRequestAlreadyProcessed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	req, err := f.friends.SendRequest(ctx, a, b, "")
	require.NoError(t, err)
	req.Status = models.RequestStatusRejected

	_, err = f.friends.AcceptRequest(ctx, req.ID, b)
	assert.Equal(t, apperrors.KindAlreadyProcessed, apperrors.KindOf(err))
}

func TestRejectAndCancelAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	req, err := f.friends.SendRequest(ctx, a, b, "")
	require.NoError(t, err)

	// Sender cannot reject, receiver cannot cancel.
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(f.friends.RejectRequest(ctx, req.ID, a)))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(f.friends.CancelRequest(ctx, req.ID, b)))

	require.NoError(t, f.friends.CancelRequest(ctx, req.ID, a))
	_, err = f.requests.GetRequestByID(ctx, req.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRejectDeletesRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()

	req, err := f.friends.SendRequest(ctx, a, b, "")
	require.NoError(t, err)
	require.NoError(t, f.friends.RejectRequest(ctx, req.ID, b))

	// No edge was created and the pair may try again.
	_, err = f.edges.GetByPair(ctx, a, b)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	_, err = f.friends.SendRequest(ctx, a, b, "")
	assert.NoError(t, err)
}

func TestRemoveFriendAbsentEdge(t *testing.T) {
	f := newFixture()
	a := f.users.addUser()
	b := f.users.addUser()

	err := f.friends.RemoveFriend(context.Background(), a, b)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err), "removing an absent edge must not silently succeed")
}

func TestRemoveFriendDeletesEdge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()
	f.edges.addEdge(a, b)

	require.NoError(t, f.friends.RemoveFriend(ctx, b, a))

	friends, err := f.friends.ListFriends(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestListFriends(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.addUser()
	b := f.users.addUser()
	c := f.users.addUser()
	f.edges.addEdge(a, b)
	f.edges.addEdge(c, a)

	friends, err := f.friends.ListFriends(ctx, a)
	require.NoError(t, err)
	assert.Len(t, friends, 2)
}
