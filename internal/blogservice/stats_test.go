package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func blogFixtures() []Blog {
	return []Blog{
		{ID: 1, Title: "First steps with Go", Author: "Jucca Palmu", URL: "www.nono.fi", Likes: 3},
		{ID: 2, Title: "Detecting a mistake", Author: "Jucca Palmu", URL: "www.nono.fi", Likes: 7},
		{ID: 3, Title: "Notes on testing", Author: "Someone Else", URL: "www.example.com", Likes: 5},
	}
}

func TestMaxLikes(t *testing.T) {
	testCases := []struct {
		name  string
		blogs []Blog
		want  int
	}{
		{
			name:  "empty list",
			blogs: []Blog{},
			want:  0,
		},
		{
			name:  "nil list",
			blogs: nil,
			want:  0,
		},
		{
			name:  "single blog",
			blogs: []Blog{{Title: "Detecting a mistake", Author: "Jucca Palmu", URL: "www.nono.fi", Likes: 3}},
			want:  3,
		},
		{
			name:  "several blogs",
			blogs: blogFixtures(),
			want:  7,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MaxLikes(tc.blogs))
		})
	}
}

func TestMostLiked(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		assert.Nil(t, MostLiked([]Blog{}))
		assert.Nil(t, MostLiked(nil))
	})

	t.Run("single blog", func(t *testing.T) {
		blogs := []Blog{{ID: 9, Title: "Detecting a mistake", Author: "Jucca Palmu", URL: "www.nono.fi", Likes: 3}}
		got := MostLiked(blogs)
		assert.NotNil(t, got)
		assert.Equal(t, 9, got.ID)
	})

	t.Run("several blogs", func(t *testing.T) {
		got := MostLiked(blogFixtures())
		assert.NotNil(t, got)
		assert.Equal(t, 2, got.ID)
		assert.Equal(t, 7, got.Likes)
	})

	t.Run("tie resolves to earliest", func(t *testing.T) {
		blogs := []Blog{
			{ID: 1, Title: "A", Likes: 5},
			{ID: 2, Title: "B", Likes: 5},
		}
		got := MostLiked(blogs)
		assert.Equal(t, 1, got.ID)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		blogs := blogFixtures()
		_ = MostLiked(blogs)
		assert.Equal(t, blogFixtures(), blogs)
	})
}
