package services

import (
	"context"
	"testing"

	"postboard/app/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeParity(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	alice := signupAndLogin(t, svc, "alice", "a@x.com")

	for i := 1; i <= 5; i++ {
		liked, err := svc.Engagement.ToggleLike(ctx, alice, 7)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, liked, "toggle %d", i)
	}

	_, err := svc.Engagement.ToggleLike(ctx, alice, 0)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	_, err = svc.Engagement.ToggleLike(ctx, anonymous, 7)
	assert.ErrorIs(t, err, apperr.ErrNoToken)
}

func TestRatePost(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t)
	alice := signupAndLogin(t, svc, "alice", "a@x.com")
	post, err := svc.Posts.CreatePost(ctx, alice, "rate me", nil)
	require.NoError(t, err)

	t.Run("re-rating overwrites", func(t *testing.T) {
		_, err := svc.Engagement.RatePost(ctx, alice, post.ID, 2)
		require.NoError(t, err)
		r, err := svc.Engagement.RatePost(ctx, alice, post.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, r.Rating)

		detail, err := svc.Posts.GetPostDetail(ctx, alice, post.ID)
		require.NoError(t, err)
		require.NotNil(t, detail.AvgRating)
		assert.Equal(t, "5.00", *detail.AvgRating)
	})

	for _, value := range []int{0, 6, -1} {
		_, err := svc.Engagement.RatePost(ctx, alice, post.ID, value)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err), "rating %d", value)
	}
}
