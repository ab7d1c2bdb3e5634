package main

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func cleanTables(t *testing.T, db *sql.DB) {
	t.Cleanup(func() {
		for _, table := range []string{"blogs", "auth_tokens", "tokens", "user_permissions", "users"} {
			_, err := db.Exec("DELETE FROM " + table)
			assert.NoError(t, err)
		}
	})
}

func TestRegisterUserHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		payload    any
		setup      func(db *sql.DB) error
		wantStatus int
		wantBody   envelope
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"username": "testuser",
				"name":     "Test User",
				"email":    "testuser@example.com",
				"password": "Test_1234!",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Invalid Email",
			payload: map[string]any{
				"username": "testuser",
				"email":    "test",
				"password": "Test_1234!",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"email": "must be a valid email address"}},
		},
		{
			name: "Duplicate Email",
			payload: map[string]any{
				"username": "user1",
				"email":    "testuser@example.com",
				"password": "Test_1234!",
			},
			setup: func(db *sql.DB) error {
				randomHash := make([]byte, 16)
				_, err := rand.Read(randomHash)
				if err != nil {
					return err
				}

				_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.com", randomHash)
				return err
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"email": "a user with this email address already exists"}},
		},
		{
			name: "Duplicate Username",
			payload: map[string]any{
				"username": "testuser",
				"email":    "testuser1@example.com",
				"password": "Test_1234!",
			},
			setup: func(db *sql.DB) error {
				randomHash := make([]byte, 16)
				_, err := rand.Read(randomHash)
				if err != nil {
					return err
				}

				_, err = db.Exec("INSERT INTO users (username, email, password) VALUES ($1, $2, $3)", "testuser", "testuser@example.co", randomHash)
				return err
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"username": "this username is already taken"}},
		},
		{
			name:       "Empty Payload",
			payload:    map[string]any{},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   envelope{"error": map[string]any{"email": "must be provided", "password": "must be provided", "username": "must be provided"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				err := tc.setup(db)
				assert.NoError(t, err)
			}

			status, _, body := ts.post(t, "/v1/users/register", tc.payload, nil)

			assert.Equal(t, tc.wantStatus, status)
			if tc.wantBody != nil {
				assert.Equal(t, tc.wantBody, body)
			}

			cleanTables(t, db)
		})
	}
}

func TestCreateBlogHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	userID, token := registerActivatedUser(t, app, "blogowner")

	testCases := []struct {
		name       string
		payload    any
		token      *string
		wantStatus int
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"title":  "Detecting a mistake",
				"author": "Jucca Palmu",
				"url":    "www.nono.fi",
				"likes":  3,
			},
			token:      &token,
			wantStatus: http.StatusCreated,
		},
		{
			name: "Missing Likes Defaults To Zero",
			payload: map[string]any{
				"title": "No likes yet",
				"url":   "www.nono.fi",
			},
			token:      &token,
			wantStatus: http.StatusCreated,
		},
		{
			name: "Missing Title",
			payload: map[string]any{
				"url": "www.nono.fi",
			},
			token:      &token,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "No Token",
			payload: map[string]any{
				"title": "Detecting a mistake",
				"url":   "www.nono.fi",
			},
			token:      nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/v1/blogs", tc.payload, tc.token)

			assert.Equal(t, tc.wantStatus, status)

			if status == http.StatusCreated {
				blog := body["blog"].(map[string]any)
				assert.Equal(t, float64(userID), blog["user_id"])

				if tc.name == "Missing Likes Defaults To Zero" {
					assert.Equal(t, float64(0), blog["likes"])
				}
			}
		})
	}

	cleanTables(t, db)
}

func TestUpdateBlogHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	_, ownerToken := registerActivatedUser(t, app, "blogowner")
	_, otherToken := registerActivatedUser(t, app, "otheruser")

	status, _, body := ts.post(t, "/v1/blogs", map[string]any{
		"title": "Detecting a mistake",
		"url":   "www.nono.fi",
		"likes": 3,
	}, &ownerToken)
	assert.Equal(t, http.StatusCreated, status)

	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	t.Run("Owner Can Update", func(t *testing.T) {
		status, _, body := ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogID), &ownerToken, map[string]any{
			"likes": 4,
		})
		assert.Equal(t, http.StatusOK, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, float64(4), blog["likes"])
		assert.Equal(t, "Detecting a mistake", blog["title"])
	})

	t.Run("Non Owner Is Forbidden", func(t *testing.T) {
		status, _, _ := ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogID), &otherToken, map[string]any{
			"likes": 100,
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("Absent Blog", func(t *testing.T) {
		status, _, _ := ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogID+1), &ownerToken, map[string]any{
			"likes": 1,
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("No Token", func(t *testing.T) {
		status, _, _ := ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogID), nil, map[string]any{
			"likes": 1,
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	cleanTables(t, db)
}

func TestDeleteBlogHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	_, ownerToken := registerActivatedUser(t, app, "blogowner")
	_, otherToken := registerActivatedUser(t, app, "otheruser")

	status, _, body := ts.post(t, "/v1/blogs", map[string]any{
		"title": "Detecting a mistake",
		"url":   "www.nono.fi",
	}, &ownerToken)
	assert.Equal(t, http.StatusCreated, status)

	blogID := int(body["blog"].(map[string]any)["id"].(float64))

	t.Run("Non Owner Is Forbidden", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogID), &otherToken)
		assert.Equal(t, http.StatusForbidden, status)

		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM blogs WHERE id = $1", blogID).Scan(&count)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Owner Can Delete", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogID), &ownerToken)
		assert.Equal(t, http.StatusNoContent, status)
	})

	t.Run("Absent Blog", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogID), &ownerToken)
		assert.Equal(t, http.StatusNotFound, status)
	})

	cleanTables(t, db)
}

func TestGetBlogsHandlers(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	userID, token := registerActivatedUser(t, app, "blogowner")

	var blogIDs []int

	for _, seed := range []struct {
		title string
		likes int
	}{
		{"First steps with Go", 3},
		{"Detecting a mistake", 7},
	} {
		status, _, body := ts.post(t, "/v1/blogs", map[string]any{
			"title": seed.title,
			"url":   "www.nono.fi",
			"likes": seed.likes,
		}, &token)
		assert.Equal(t, http.StatusCreated, status)

		blogIDs = append(blogIDs, int(body["blog"].(map[string]any)["id"].(float64)))
	}

	t.Run("List All", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body["blogs"], 2)

		for _, item := range body["blogs"].([]any) {
			owner := item.(map[string]any)["user"].(map[string]any)
			assert.Equal(t, "blogowner", owner["username"])
			assert.Equal(t, "Test User", owner["name"])
		}
	})

	t.Run("List By User", func(t *testing.T) {
		status, _, body := ts.get(t, fmt.Sprintf("/v1/blogs?user_id=%d", userID), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body["blogs"], 2)
	})

	t.Run("List By Unknown User", func(t *testing.T) {
		status, _, body := ts.get(t, fmt.Sprintf("/v1/blogs?user_id=%d", userID+1), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body["blogs"], 0)
	})

	t.Run("Get By ID", func(t *testing.T) {
		status, _, body := ts.get(t, fmt.Sprintf("/v1/blogs/%d", blogIDs[0]), nil)
		assert.Equal(t, http.StatusOK, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, "First steps with Go", blog["title"])
		assert.Equal(t, "blogowner", blog["user"].(map[string]any)["username"])
	})

	t.Run("Most Liked", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/popular", nil)
		assert.Equal(t, http.StatusOK, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, "Detecting a mistake", blog["title"])
		assert.Equal(t, float64(7), blog["likes"])
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/blogs?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Invalid User Filter", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/blogs?user_id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	cleanTables(t, db)
}

func TestHealthCheckHandler(t *testing.T) {
	app, db := newTestApplication(t)

	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])

	cleanTables(t, db)
}
