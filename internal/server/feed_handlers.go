package server

import (
	"github.com/gofiber/fiber/v2"
)

// Index handles GET / and serves one page of the global feed: every
// publicly visible post, newest publication first.
func (s *Server) Index(c *fiber.Ctx) error {
	page, err := s.postService.Feed(c.UserContext(), parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"page": page,
	})
}

// CategoryPosts handles GET /category/:slug. An unknown or unpublished
// category is a 404, never an empty listing.
func (s *Server) CategoryPosts(c *fiber.Ctx) error {
	category, page, err := s.postService.CategoryFeed(c.UserContext(), c.Params("slug"), parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"category": category,
		"page":     page,
	})
}

// Profile handles GET /profile/:username. The profile owner sees all of
// their own posts including unpublished and scheduled ones; everyone
// else gets the public listing.
func (s *Server) Profile(c *fiber.Ctx) error {
	profile, page, err := s.postService.ProfileFeed(c.UserContext(), c.Params("username"), viewerID(c), parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"profile": profile,
		"page":    page,
	})
}
