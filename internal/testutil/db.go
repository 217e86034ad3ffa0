// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chronicle/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB opens a fresh in-memory SQLite database with the full schema
// applied. Each call gets its own database; the shared cache keeps it
// alive across the connection pool within one test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	))

	return db
}

// CreateUser persists a minimal user account.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCategory persists a category with the given slug.
func CreateCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Title:       "Category " + slug,
		Description: "About " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateLocation persists a location.
func CreateLocation(t *testing.T, db *gorm.DB, name string, published bool) *models.Location {
	t.Helper()
	location := &models.Location{
		Name:        name,
		IsPublished: published,
	}
	require.NoError(t, db.Create(location).Error)
	return location
}

// PostOpts tweaks the post built by CreatePost.
type PostOpts struct {
	Title       string
	PubDate     time.Time
	Unpublished bool
	Category    *models.Category
	Location    *models.Location
}

// CreatePost persists a post by the author. Defaults produce a publicly
// visible post dated an hour in the past.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, opts PostOpts) *models.Post {
	t.Helper()
	if opts.Title == "" {
		opts.Title = "A post"
	}
	if opts.PubDate.IsZero() {
		opts.PubDate = time.Now().UTC().Add(-time.Hour)
	}
	post := &models.Post{
		Title:       opts.Title,
		Text:        "Body of " + opts.Title,
		PubDate:     opts.PubDate,
		IsPublished: !opts.Unpublished,
		AuthorID:    author.ID,
	}
	if opts.Category != nil {
		post.CategoryID = &opts.Category.ID
	}
	if opts.Location != nil {
		post.LocationID = &opts.Location.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreateComment persists a comment by the author on the post.
func CreateComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, text string, published bool) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Text:        text,
		IsPublished: published,
		PostID:      post.ID,
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
