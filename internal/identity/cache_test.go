package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/orghub/internal/objects"
	"github.com/looplj/orghub/internal/pkg/xcache"
)

type fakeClient struct {
	claims map[string]*objects.Claims
	calls  int
}

func (f *fakeClient) FetchClaims(ctx context.Context, workosUserID string) (*objects.Claims, error) {
	f.calls++
	return f.claims[workosUserID], nil
}

func TestGetCachedClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		client := &fakeClient{claims: map[string]*objects.Claims{
			"user_1": {
				WorkOSUserID: "user_1",
				Email:        "u1@example.com",
				Organizations: []objects.OrganizationMembership{
					{WorkOSOrgID: "org_1", Role: "member"},
				},
			},
		}}

		cache := NewClaimsCache(client, CacheConfig{Config: xcache.Config{Mode: xcache.ModeMemory}})

		first, err := cache.GetCachedClaims(ctx, "user_1")
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.Equal(t, 1, client.calls)

		second, err := cache.GetCachedClaims(ctx, "user_1")
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, "u1@example.com", second.Email)
		// Second read is served from cache.
		assert.Equal(t, 1, client.calls)
	})

	t.Run("unknown user", func(t *testing.T) {
		client := &fakeClient{}
		cache := NewClaimsCache(client, CacheConfig{Config: xcache.Config{Mode: xcache.ModeMemory}})

		claims, err := cache.GetCachedClaims(ctx, "user_missing")
		require.NoError(t, err)
		assert.Nil(t, claims)
	})

	t.Run("invalidate forces refetch", func(t *testing.T) {
		client := &fakeClient{claims: map[string]*objects.Claims{
			"user_2": {WorkOSUserID: "user_2"},
		}}
		cache := NewClaimsCache(client, CacheConfig{Config: xcache.Config{Mode: xcache.ModeMemory}})

		_, err := cache.GetCachedClaims(ctx, "user_2")
		require.NoError(t, err)
		require.NoError(t, cache.Invalidate(ctx, "user_2"))

		_, err = cache.GetCachedClaims(ctx, "user_2")
		require.NoError(t, err)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("noop cache always fetches", func(t *testing.T) {
		client := &fakeClient{claims: map[string]*objects.Claims{
			"user_3": {WorkOSUserID: "user_3"},
		}}
		cache := NewClaimsCache(client, CacheConfig{})

		_, err := cache.GetCachedClaims(ctx, "user_3")
		require.NoError(t, err)
		_, err = cache.GetCachedClaims(ctx, "user_3")
		require.NoError(t, err)
		assert.Equal(t, 2, client.calls)
	})
}
