package blogservice

// MaxLikes returns the largest like count among the blogs, or zero when the
// list is empty.
func MaxLikes(blogs []Blog) int {
	max := 0
	for _, blog := range blogs {
		if blog.Likes > max {
			max = blog.Likes
		}
	}

	return max
}

// MostLiked returns the blog holding the largest like count, or nil when the
// list is empty. Ties resolve to the earliest blog in the list.
func MostLiked(blogs []Blog) *Blog {
	if len(blogs) == 0 {
		return nil
	}

	best := &blogs[0]
	for i := 1; i < len(blogs); i++ {
		if blogs[i].Likes > best.Likes {
			best = &blogs[i]
		}
	}

	return best
}
