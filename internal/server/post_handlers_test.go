package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexListsOnlyVisiblePosts(t *testing.T) {
	app, _, db := newTestApp(t)

	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	visible := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "visible"})
	testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "draft", Unpublished: true})
	testutil.CreatePost(t, db, author, testutil.PostOpts{
		Title: "scheduled", PubDate: time.Now().UTC().Add(time.Hour),
	})
	testutil.CreateComment(t, db, reader, visible, "nice", true)
	testutil.CreateComment(t, db, reader, visible, "hidden", false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	page := body["page"].(map[string]interface{})
	items := page["items"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, "visible", item["title"])
	assert.Equal(t, float64(1), item["comment_count"], "hidden comments are not counted")
	assert.Equal(t, "author", item["author"].(map[string]interface{})["username"])
}

func TestIndexPageClamping(t *testing.T) {
	app, _, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	for i := 0; i < 3; i++ {
		testutil.CreatePost(t, db, author, testutil.PostOpts{Title: fmt.Sprintf("p%d", i)})
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?page=99", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decodeBody(t, resp)["page"].(map[string]interface{})
	assert.Equal(t, float64(1), page["number"], "overshoot lands on the last page")
	assert.Len(t, page["items"].([]interface{}), 3)
}

func TestPostDetailVisibility(t *testing.T) {
	app, srv, db := newTestApp(t)

	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	draft := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "draft", Unpublished: true})

	target := fmt.Sprintf("/posts/%d", draft.ID)

	// Anonymous and non-author viewers get 404.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, other))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The author sees their own draft.
	req = httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, author))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "draft", body["post"].(map[string]interface{})["title"])
}

func TestPostDetailUnknownID(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, target := range []string{"/posts/12345", "/posts/abc"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
	}
}

func TestCreatePostFlow(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	category := testutil.CreateCategory(t, db, "travel", true)

	req := jsonRequest(http.MethodPost, "/posts/create", map[string]interface{}{
		"title":       "My trip",
		"text":        "It was long.",
		"pub_date":    "2026-01-05T09:30:00Z",
		"category_id": category.ID,
	})
	req.Header.Set("Authorization", authHeader(t, srv, author))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile/author", resp.Header.Get("Location"))

	var post models.Post
	require.NoError(t, db.Where("title = ?", "My trip").First(&post).Error)
	assert.Equal(t, author.ID, post.AuthorID)
	require.NotNil(t, post.CategoryID)
	assert.Equal(t, category.ID, *post.CategoryID)
}

func TestCreatePostValidationRerenders(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")

	req := jsonRequest(http.MethodPost, "/posts/create", map[string]interface{}{
		"text": "No title here.",
	})
	req.Header.Set("Authorization", authHeader(t, srv, author))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "invalid form re-renders, not an API error")

	body := decodeBody(t, resp)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "pub_date")
}

func TestCreatePostUnknownCategoryIsFieldError(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")

	req := jsonRequest(http.MethodPost, "/posts/create", map[string]interface{}{
		"title":       "Orphan",
		"text":        "body",
		"pub_date":    "2026-01-05T09:30:00Z",
		"category_id": 999,
	})
	req.Header.Set("Authorization", authHeader(t, srv, author))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	errs := decodeBody(t, resp)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "category_id")
}

func TestEditPostNonAuthorRedirectsToDetail(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	intruder := testutil.CreateUser(t, db, "intruder")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "mine"})

	target := fmt.Sprintf("/posts/%d/edit", post.ID)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, intruder))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	// The POST half behaves the same and leaves the post untouched.
	req = jsonRequest(http.MethodPost, target, map[string]interface{}{
		"title":    "hijacked",
		"text":     "x",
		"pub_date": "2026-01-05T09:30:00Z",
	})
	req.Header.Set("Authorization", authHeader(t, srv, intruder))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// An invalid submission from a non-author also redirects; it never
	// reaches the form re-render.
	req = jsonRequest(http.MethodPost, target, map[string]interface{}{"title": ""})
	req.Header.Set("Authorization", authHeader(t, srv, intruder))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var kept models.Post
	require.NoError(t, db.First(&kept, post.ID).Error)
	assert.Equal(t, "mine", kept.Title)
}

func TestEditPostByAuthor(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "before"})

	req := jsonRequest(http.MethodPost, fmt.Sprintf("/posts/%d/edit", post.ID), map[string]interface{}{
		"title":    "after",
		"text":     "updated body",
		"pub_date": "2026-01-05T09:30:00Z",
	})
	req.Header.Set("Authorization", authHeader(t, srv, author))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var updated models.Post
	require.NoError(t, db.First(&updated, post.ID).Error)
	assert.Equal(t, "after", updated.Title)
}

func TestDeletePostMasksNonAuthor(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	intruder := testutil.CreateUser(t, db, "intruder")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "mine"})
	testutil.CreateComment(t, db, intruder, post, "a comment", true)

	target := fmt.Sprintf("/posts/%d/delete", post.ID)

	// A non-author is told the post does not exist.
	req := jsonRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, intruder))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The author's delete cascades onto the comments.
	req = jsonRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, author))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile/author", resp.Header.Get("Location"))

	var posts, comments int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)

	// A repeated confirmation lands on 404.
	req = jsonRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, author))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryFeed(t *testing.T) {
	app, _, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	travel := testutil.CreateCategory(t, db, "travel", true)
	hidden := testutil.CreateCategory(t, db, "secret", false)
	testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "trip", Category: travel})
	testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "covert", Category: hidden})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/category/travel", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "travel", body["category"].(map[string]interface{})["slug"])
	assert.Len(t, body["page"].(map[string]interface{})["items"].([]interface{}), 1)

	// Unpublished and unknown categories are both 404.
	for _, slug := range []string{"secret", "missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/category/"+slug, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, slug)
	}
}

func TestProfileFeedOwnerSeesDrafts(t *testing.T) {
	app, srv, db := newTestApp(t)
	owner := testutil.CreateUser(t, db, "owner")
	testutil.CreatePost(t, db, owner, testutil.PostOpts{Title: "live"})
	testutil.CreatePost(t, db, owner, testutil.PostOpts{Title: "draft", Unpublished: true})

	// Public view shows only the live post.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/profile/owner", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodeBody(t, resp)["page"].(map[string]interface{})
	assert.Len(t, page["items"].([]interface{}), 1)

	// The owner sees both.
	req := httptest.NewRequest(http.MethodGet, "/profile/owner", nil)
	req.Header.Set("Authorization", authHeader(t, srv, owner))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decodeBody(t, resp)["page"].(map[string]interface{})
	assert.Len(t, page["items"].([]interface{}), 2)

	// Unknown profiles are 404.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/profile/ghost", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
