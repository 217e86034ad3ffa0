package seed

import (
	"fmt"
	"log"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a realistic blog data set.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data in dependency order.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Post{},
		&models.Location{},
		&models.Category{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("cleaning %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds users, categories, locations, posts, and comments. A couple
// of categories and locations are left unpublished so the visibility
// rules have something to hide.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	categories := make([]*models.Category, 0, 8)
	for i := 0; i < 8; i++ {
		published := i < 6
		category, err := s.factory.CreateCategory(func(c *models.Category) {
			c.IsPublished = published
		})
		if err != nil {
			return fmt.Errorf("seeding categories: %w", err)
		}
		categories = append(categories, category)
	}

	locations := make([]*models.Location, 0, 6)
	for i := 0; i < 6; i++ {
		published := i < 5
		location, err := s.factory.CreateLocation(func(l *models.Location) {
			l.IsPublished = published
		})
		if err != nil {
			return fmt.Errorf("seeding locations: %w", err)
		}
		locations = append(locations, location)
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rand.Intn(len(users))]
		post := s.factory.BuildPost(author, func(p *models.Post) {
			if s.factory.rand.Intn(10) > 0 {
				id := categories[s.factory.rand.Intn(len(categories))].ID
				p.CategoryID = &id
			}
			if s.factory.rand.Intn(2) == 0 {
				id := locations[s.factory.rand.Intn(len(locations))].ID
				p.LocationID = &id
			}
		})
		posts = append(posts, post)
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	comments := 0
	for _, post := range posts {
		for i := s.factory.rand.Intn(6); i > 0; i-- {
			author := users[s.factory.rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(author, post); err != nil {
				return fmt.Errorf("seeding comments: %w", err)
			}
			comments++
		}
	}
	log.Printf("Created %d comments", comments)

	return nil
}
