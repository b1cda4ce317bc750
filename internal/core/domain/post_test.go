package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravatarURL_NormalisesEmail(t *testing.T) {
	want := "//www.gravatar.com/avatar/c160f8cc69a4f0bf2b0362752353d060?s=200&r=pg&d=mm"

	assert.Equal(t, want, GravatarURL("alice@example.com"))
	assert.Equal(t, want, GravatarURL("  Alice@Example.COM "))
}

func TestPost_LikeUnlike(t *testing.T) {
	p := NewPost("owner", "hi", Author{Name: "Owner"}, time.Now())

	require.NoError(t, p.Like("u1"))
	require.NoError(t, p.Like("u2"))
	assert.Equal(t, "u2", p.Likes[0].User, "newest like first")
	assert.ErrorIs(t, p.Like("u1"), ErrAlreadyLiked)

	require.NoError(t, p.Unlike("u1"))
	assert.Len(t, p.Likes, 1)
	assert.ErrorIs(t, p.Unlike("u1"), ErrNotLiked)
}

func TestPost_DislikeIsIndependentOfLike(t *testing.T) {
	p := NewPost("owner", "hi", Author{}, time.Now())

	require.NoError(t, p.Like("u1"))
	require.NoError(t, p.Dislike("u1"))
	assert.True(t, p.HasLiked("u1"))
	assert.True(t, p.HasDisliked("u1"))

	assert.ErrorIs(t, p.Dislike("u1"), ErrAlreadyDisliked)
	require.NoError(t, p.Undislike("u1"))
	assert.ErrorIs(t, p.Undislike("u1"), ErrNotDisliked)
}

func TestPost_RemoveComment(t *testing.T) {
	p := NewPost("owner", "hi", Author{}, time.Now())
	p.AddComment("u1", "first", Author{Name: "U1"}, time.Now())
	p.AddComment("u2", "second", Author{Name: "U2"}, time.Now())
	p.Comments[0].ID = "c2"
	p.Comments[1].ID = "c1"

	assert.Equal(t, "second", p.Comments[0].Text, "newest comment first")
	assert.ErrorIs(t, p.RemoveComment("c1", "u2"), ErrForbidden)
	assert.ErrorIs(t, p.RemoveComment("missing", "u1"), ErrCommentNotFound)

	require.NoError(t, p.RemoveComment("c1", "u1"))
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "c2", p.Comments[0].ID)
}

func TestNewPost_EmptyCollections(t *testing.T) {
	p := NewPost("owner", "hi", Author{Name: "Owner", Avatar: "//a"}, time.Now())

	assert.NotNil(t, p.Likes)
	assert.NotNil(t, p.Dislikes)
	assert.NotNil(t, p.Comments)
	assert.Equal(t, "Owner", p.Name)
	assert.True(t, p.OwnedBy("owner"))
	assert.False(t, p.OwnedBy("someone"))
}
