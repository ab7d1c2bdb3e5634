package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jpalmu/bloglist/internal/common"
)

var ErrNotOwner = errors.New("blog does not belong to user")

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{
		m: NewBlogModel(db),
		c: c,
	}
}

// CreateBlog validates the request and stores a new blog owned by the
// requesting user. A missing likes count defaults to zero.
func (s *BlogService) CreateBlog(ctx context.Context, req CreateBlogRequest) (*Blog, error) {
	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateAuthor(v, req.Author)
	validateURL(v, req.URL)
	validateLikes(v, likes)
	validateInt(v, req.UserID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likes,
		UserID: req.UserID,
	}

	err := s.m.insert(ctx, &blog)
	if err != nil {
		return nil, err
	}

	// the insert does not return the owner columns
	return s.m.getBlogById(ctx, blog.ID)
}

func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if s.c != nil {
		if cached, ok := s.c.Get(common.CacheKeyBlog(id)); ok {
			return cached.(*Blog), nil
		}
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.Set(common.CacheKeyBlog(id), blog)
	}

	return blog, nil
}

func (s *BlogService) GetBlogs(ctx context.Context, limit, offset int) ([]Blog, error) {
	return s.m.getBlogs(ctx, limit, offset)
}

func (s *BlogService) GetBlogsByUserID(ctx context.Context, userID, limit, offset int) ([]Blog, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogsByUserId(ctx, userID, limit, offset)
}

// UpdateBlog applies the provided fields to a blog owned by userID. Fields
// left nil keep their stored value. Returns ErrNotOwner when the blog belongs
// to someone else.
func (s *BlogService) UpdateBlog(ctx context.Context, id, userID int, req UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.UserID != userID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Author != nil {
		blog.Author = *req.Author
	}
	if req.URL != nil {
		blog.URL = *req.URL
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	validateTitle(v, blog.Title)
	validateAuthor(v, blog.Author)
	validateURL(v, blog.URL)
	validateLikes(v, blog.Likes)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	err = s.m.update(ctx, blog)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.Delete(common.CacheKeyBlog(id))
	}

	return blog, nil
}

// DeleteBlog removes a blog owned by userID and prunes it from the owner's
// blog list. Returns ErrNotOwner when the blog belongs to someone else.
func (s *BlogService) DeleteBlog(ctx context.Context, id, userID int) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	blog, err := s.m.getBlogById(ctx, id)
	if err != nil {
		return err
	}

	if blog.UserID != userID {
		return ErrNotOwner
	}

	err = s.m.delete(ctx, id, userID)
	if err != nil {
		return err
	}

	if s.c != nil {
		s.c.Delete(common.CacheKeyBlog(id))
	}

	return nil
}

// MostLikedBlog returns the blog with the highest like count, or nil when no
// blogs exist.
func (s *BlogService) MostLikedBlog(ctx context.Context) (*Blog, error) {
	blogs, err := s.m.getAllBlogs(ctx)
	if err != nil {
		return nil, err
	}

	return MostLiked(blogs), nil
}
