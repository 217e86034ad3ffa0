// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"chronicle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is shared by every generated account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  string(hashedPassword),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with a slug derived from its title.
func (f *Factory) CreateCategory(overrides ...func(*models.Category)) (*models.Category, error) {
	title := gofakeit.BookGenre()
	category := &models.Category{
		Title:       title,
		Description: gofakeit.Sentence(12),
		Slug:        slugify(title) + fmt.Sprintf("-%d", gofakeit.Number(10, 99)),
		IsPublished: true,
	}

	for _, override := range overrides {
		override(category)
	}

	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateLocation persists a location.
func (f *Factory) CreateLocation(overrides ...func(*models.Location)) (*models.Location, error) {
	location := &models.Location{
		Name:        gofakeit.City(),
		IsPublished: true,
	}

	for _, override := range overrides {
		override(location)
	}

	if err := f.db.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

// BuildPost constructs a post with a publication time spread over the
// surrounding year so feeds show both live and scheduled entries. It
// does not persist the post; use CreatePostsBatch for batching.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	// Mostly past dates, occasionally scheduled into the future.
	daysOffset := f.rand.Intn(365) - 330
	pubDate := time.Now().UTC().AddDate(0, 0, daysOffset).
		Add(-time.Duration(f.rand.Intn(24)) * time.Hour)

	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		Text:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		PubDate:     pubDate,
		AuthorID:    author.ID,
		IsPublished: f.rand.Intn(10) > 1,
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a comment by the author on the post.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:        gofakeit.Sentence(f.rand.Intn(20) + 3),
		AuthorID:    author.ID,
		PostID:      post.ID,
		IsPublished: true,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
