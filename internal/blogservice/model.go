package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("edit conflict")
	ErrUserNotFound   = errors.New("user not found")
)

func NewBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// insert stores a new blog and appends its id to the owner's blog list in the
// same transaction.
func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version`

	err = tx.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, blog.UserID).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		_ = tx.Rollback()

		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "blogs_user_id_fkey":
			return ErrUserNotFound
		default:
			return err
		}
	}

	query = `
		UPDATE users
		SET blog_ids = array_append(blog_ids, $1), updated_at = now()
		WHERE id = $2`

	_, err = tx.ExecContext(ctx, query, blog.ID, blog.UserID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (m *BlogModel) getBlogById(ctx context.Context, id int) (*Blog, error) {
	var blog Blog

	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, u.id, u.username, u.name, b.created_at, b.updated_at, b.version
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.id = $1`

	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.UserID, &blog.User.ID, &blog.User.Username, &blog.User.Name, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *BlogModel) getBlogs(ctx context.Context, limit, offset int) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, u.id, u.username, u.name, b.created_at, b.updated_at, b.version
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1 OFFSET $2`

	return m.queryBlogs(ctx, query, limit, offset)
}

func (m *BlogModel) getBlogsByUserId(ctx context.Context, userID, limit, offset int) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, u.id, u.username, u.name, b.created_at, b.updated_at, b.version
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3`

	return m.queryBlogs(ctx, query, userID, limit, offset)
}

// getAllBlogs reads the full table. Used by the like statistics, which need
// every row rather than a page.
func (m *BlogModel) getAllBlogs(ctx context.Context) ([]Blog, error) {
	query := `
		SELECT b.id, b.title, b.author, b.url, b.likes, b.user_id, u.id, u.username, u.name, b.created_at, b.updated_at, b.version
		FROM blogs b
		JOIN users u ON b.user_id = u.id
		ORDER BY b.created_at ASC, b.id ASC`

	return m.queryBlogs(ctx, query)
}

func (m *BlogModel) queryBlogs(ctx context.Context, query string, args ...any) ([]Blog, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		var blog Blog

		err := rows.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.UserID, &blog.User.ID, &blog.User.Username, &blog.User.Name, &blog.CreatedAt, &blog.UpdatedAt, &blog.Version)
		if err != nil {
			return nil, err
		}

		blogs = append(blogs, blog)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// update writes the changed fields. The version predicate turns a concurrent
// modification into ErrEditConflict instead of a silent overwrite.
func (m *BlogModel) update(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, updated_at = now(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version`

	err := m.db.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, blog.ID, blog.Version).Scan(&blog.UpdatedAt, &blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

// delete removes a blog and prunes its id from the owner's blog list in the
// same transaction.
func (m *BlogModel) delete(ctx context.Context, id, userID int) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if rows == 0 {
		_ = tx.Rollback()
		return ErrRecordNotFound
	}

	query = `
		UPDATE users
		SET blog_ids = array_remove(blog_ids, $1), updated_at = now()
		WHERE id = $2`

	_, err = tx.ExecContext(ctx, query, id, userID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
