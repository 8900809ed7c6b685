package repositories

import (
	"context"
	"testing"
	"time"

	"postboard/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerPostRepository(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)
	posts := repos.Posts

	base := time.Now()
	older := &models.Post{UserID: 1, Caption: "older", MediaURL: []string{}, CreatedAt: base.Add(-time.Minute)}
	newer := &models.Post{UserID: 1, Caption: "newer", MediaURL: []string{"https://cdn.example.com/a.png"}, CreatedAt: base}
	require.NoError(t, posts.Create(ctx, older))
	require.NoError(t, posts.Create(ctx, newer))

	t.Run("get by id", func(t *testing.T) {
		got, err := posts.GetByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, "newer", got.Caption)
		assert.Equal(t, []string{"https://cdn.example.com/a.png"}, got.MediaURL)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := posts.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)
	})

	t.Run("update", func(t *testing.T) {
		older.Caption = "edited"
		require.NoError(t, posts.Update(ctx, older))
		got, err := posts.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Caption)

		assert.ErrorIs(t, posts.Update(ctx, &models.Post{ID: 99, UserID: 1}), ErrNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		root := &models.Comment{Content: "root", PostID: older.ID, UserID: 2, CreatedAt: base}
		require.NoError(t, repos.Comments.Create(ctx, root))
		reply := &models.Comment{Content: "reply", PostID: older.ID, UserID: 3, ParentCommentID: &root.ID, CreatedAt: base}
		require.NoError(t, repos.Comments.Create(ctx, reply))
		_, err := repos.Likes.Toggle(ctx, 2, older.ID)
		require.NoError(t, err)
		require.NoError(t, repos.Ratings.Upsert(ctx, &models.Rating{UserID: 2, PostID: older.ID, Rating: 4}))

		// engagement on the other post must survive
		_, err = repos.Likes.Toggle(ctx, 2, newer.ID)
		require.NoError(t, err)

		require.NoError(t, posts.Delete(ctx, older.ID))

		_, err = posts.GetByID(ctx, older.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repos.Comments.GetByID(ctx, root.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repos.Comments.GetByID(ctx, reply.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		comments, err := repos.Comments.ListByPost(ctx, older.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
		replies, err := repos.Comments.ListReplies(ctx, root.ID)
		require.NoError(t, err)
		assert.Empty(t, replies)

		likes, err := repos.Likes.CountByPost(ctx, older.ID)
		require.NoError(t, err)
		assert.Zero(t, likes)
		ratings, err := repos.Ratings.ListByPost(ctx, older.ID)
		require.NoError(t, err)
		assert.Empty(t, ratings)

		likes, err = repos.Likes.CountByPost(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, likes)
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, posts.Delete(ctx, 12345), ErrNotFound)
	})
}
