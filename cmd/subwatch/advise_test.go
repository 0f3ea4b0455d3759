package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/engine"
	"github.com/subwatch-ai/subwatch/internal/model"
)

func newResolveDeps(t *testing.T, ids ...string) deps {
	t.Helper()

	session := engine.NewSession()
	for _, id := range ids {
		require.NoError(t, session.Subscriptions().Add(model.Subscription{
			ID:          id,
			ServiceName: "Service " + id,
			Currency:    "USD",
		}))
	}
	return deps{session: session}
}

func TestResolveSubscriptionFullID(t *testing.T) {
	d := newResolveDeps(t, "aaaa-1111-bbbb", "cccc-2222-dddd")

	sub, err := resolveSubscription(d, "aaaa-1111-bbbb")
	require.NoError(t, err)
	assert.Equal(t, "aaaa-1111-bbbb", sub.ID)
}

func TestResolveSubscriptionUniquePrefix(t *testing.T) {
	d := newResolveDeps(t, "aaaa-1111-bbbb", "cccc-2222-dddd")

	sub, err := resolveSubscription(d, "cccc")
	require.NoError(t, err)
	assert.Equal(t, "cccc-2222-dddd", sub.ID)
}

func TestResolveSubscriptionClippedID(t *testing.T) {
	d := newResolveDeps(t, "aaaa-1111-bbbb")

	// Tables print ids clipped with a trailing ellipsis.
	sub, err := resolveSubscription(d, shortID("aaaa-1111-bbbb"))
	require.NoError(t, err)
	assert.Equal(t, "aaaa-1111-bbbb", sub.ID)
}

func TestResolveSubscriptionAmbiguousPrefix(t *testing.T) {
	d := newResolveDeps(t, "aaaa-1111-bbbb", "aaaa-2222-dddd")

	_, err := resolveSubscription(d, "aaaa")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResolveSubscriptionNoMatch(t *testing.T) {
	d := newResolveDeps(t, "aaaa-1111-bbbb")

	_, err := resolveSubscription(d, "zzzz")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
