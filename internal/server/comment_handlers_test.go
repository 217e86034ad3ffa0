package server

import (
	"fmt"
	"net/http"
	"testing"

	"chronicle/internal/models"
	"chronicle/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentFlow(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "open thread"})

	req := jsonRequest(http.MethodPost, fmt.Sprintf("/posts/%d/comment", post.ID),
		map[string]interface{}{"text": "First!"})
	req.Header.Set("Authorization", authHeader(t, srv, reader))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), resp.Header.Get("Location"))

	var comment models.Comment
	require.NoError(t, db.Where("post_id = ?", post.ID).First(&comment).Error)
	assert.Equal(t, reader.ID, comment.AuthorID)
	assert.True(t, comment.IsPublished)
}

func TestAddCommentEmptyTextRerenders(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "thread"})

	req := jsonRequest(http.MethodPost, fmt.Sprintf("/posts/%d/comment", post.ID),
		map[string]interface{}{"text": ""})
	req.Header.Set("Authorization", authHeader(t, srv, author))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	errs := decodeBody(t, resp)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "text")
}

func TestAddCommentUnknownPostIs404(t *testing.T) {
	app, srv, db := newTestApp(t)
	reader := testutil.CreateUser(t, db, "reader")

	// The missing target wins over the invalid body.
	req := jsonRequest(http.MethodPost, "/posts/12345/comment",
		map[string]interface{}{"text": ""})
	req.Header.Set("Authorization", authHeader(t, srv, reader))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditCommentOwnershipMasking(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	commenter := testutil.CreateUser(t, db, "commenter")
	intruder := testutil.CreateUser(t, db, "intruder")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "thread"})
	otherPost := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "other thread"})
	comment := testutil.CreateComment(t, db, commenter, post, "original", true)

	edit := func(user *models.User, postID uint) *http.Response {
		req := jsonRequest(http.MethodPost,
			fmt.Sprintf("/posts/%d/comment/%d/edit", postID, comment.ID),
			map[string]interface{}{"text": "rewritten"})
		req.Header.Set("Authorization", authHeader(t, srv, user))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	// Somebody else's comment is a 404, not a 403.
	assert.Equal(t, http.StatusNotFound, edit(intruder, post.ID).StatusCode)

	// The right comment under the wrong post is also a 404.
	assert.Equal(t, http.StatusNotFound, edit(commenter, otherPost.ID).StatusCode)

	// An invalid body does not bypass the masking.
	req := jsonRequest(http.MethodPost,
		fmt.Sprintf("/posts/%d/comment/%d/edit", post.ID, comment.ID),
		map[string]interface{}{"text": ""})
	req.Header.Set("Authorization", authHeader(t, srv, intruder))
	maskResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, maskResp.StatusCode)

	resp := edit(commenter, post.ID)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var updated models.Comment
	require.NoError(t, db.First(&updated, comment.ID).Error)
	assert.Equal(t, "rewritten", updated.Text)
}

func TestDeleteCommentFlow(t *testing.T) {
	app, srv, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	commenter := testutil.CreateUser(t, db, "commenter")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "thread"})
	comment := testutil.CreateComment(t, db, commenter, post, "bye", true)

	target := fmt.Sprintf("/posts/%d/comment/%d/delete", post.ID, comment.ID)

	// The post's author cannot delete somebody else's comment either.
	req := jsonRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, author))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req = jsonRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, commenter))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Deleting again reports not-found.
	req = jsonRequest(http.MethodPost, target, nil)
	req.Header.Set("Authorization", authHeader(t, srv, commenter))
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostDetailListsCommentsOldestFirst(t *testing.T) {
	app, _, db := newTestApp(t)
	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	post := testutil.CreatePost(t, db, author, testutil.PostOpts{Title: "thread"})

	testutil.CreateComment(t, db, reader, post, "first", true)
	testutil.CreateComment(t, db, reader, post, "hidden", false)
	testutil.CreateComment(t, db, author, post, "second", true)

	resp, err := app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].(map[string]interface{})["text"])
	assert.Equal(t, "second", comments[1].(map[string]interface{})["text"])
	assert.Equal(t, float64(2), body["post"].(map[string]interface{})["comment_count"])
}
