package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestExcludesSelfFriendsAndPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u := f.users.addUser()
	a := f.users.addUser()
	b := f.users.addUser()
	c := f.users.addUser() // friend of a friend
	d := f.users.addUser() // friend of a friend, but already requested

	f.edges.addEdge(u, a)
	f.edges.addEdge(u, b)
	f.edges.addEdge(a, c)
	f.edges.addEdge(a, d)
	f.edges.addEdge(a, b) // b is reachable through a but already a friend

	_, err := f.friends.SendRequest(ctx, u, d, "")
	require.NoError(t, err)

	suggestions, err := f.suggestions.Suggest(ctx, u, 10)
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	assert.Equal(t, c, suggestions[0].UserID)
	for _, s := range suggestions {
		assert.NotEqual(t, u, s.UserID)
		assert.NotEqual(t, a, s.UserID)
		assert.NotEqual(t, b, s.UserID)
		assert.NotEqual(t, d, s.UserID)
	}
}

func TestSuggestMutualFriendScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// U is friends with A and B; both are friends with C.
	u := f.users.addUser()
	a := f.users.addUser()
	b := f.users.addUser()
	c := f.users.addUser()

	f.edges.addEdge(u, a)
	f.edges.addEdge(u, b)
	f.edges.addEdge(a, c)
	f.edges.addEdge(b, c)

	suggestions, err := f.suggestions.Suggest(ctx, u, 1)
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	assert.Equal(t, c, suggestions[0].UserID)
	assert.Equal(t, 2, suggestions[0].MutualFriends)
	assert.Equal(t, "2 mutual friends", suggestions[0].Reason)
}

func TestSuggestRankingAndLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u := f.users.addUser()
	f1 := f.users.addUser()
	f2 := f.users.addUser()
	strong := f.users.addUser() // two mutual friends
	weak := f.users.addUser()   // one mutual friend

	f.edges.addEdge(u, f1)
	f.edges.addEdge(u, f2)
	f.edges.addEdge(f1, strong)
	f.edges.addEdge(f2, strong)
	f.edges.addEdge(f1, weak)

	suggestions, err := f.suggestions.Suggest(ctx, u, 10)
	require.NoError(t, err)

	require.Len(t, suggestions, 2)
	assert.Equal(t, strong, suggestions[0].UserID)
	assert.Equal(t, 2, suggestions[0].MutualFriends)
	assert.Equal(t, weak, suggestions[1].UserID)
	assert.Equal(t, "1 mutual friend", suggestions[1].Reason)

	limited, err := f.suggestions.Suggest(ctx, u, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, strong, limited[0].UserID)
}

func TestSuggestNoFriendsFallsBackToNewcomers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u := f.users.addUser()
	f.users.addUser()
	f.users.addUser()

	suggestions, err := f.suggestions.Suggest(ctx, u, 10)
	require.NoError(t, err)

	assert.Len(t, suggestions, 2)
	for _, s := range suggestions {
		assert.NotEqual(t, u, s.UserID, "never suggest the user to themself")
		assert.Equal(t, "new to platform", s.Reason)
		assert.Zero(t, s.MutualFriends)
	}
}

func TestSuggestDefaultLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u := f.users.addUser()
	for i := 0; i < DefaultSuggestionLimit+5; i++ {
		f.users.addUser()
	}

	suggestions, err := f.suggestions.Suggest(ctx, u, 0)
	require.NoError(t, err)
	assert.Len(t, suggestions, DefaultSuggestionLimit)
}
