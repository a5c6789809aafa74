package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	posts, err := s.posts.List(c.UserContext(), page)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "posts", posts)
}

func (s *Server) singlePost(c *fiber.Ctx) error {
	post, err := s.posts.Get(c.UserContext(), c.Query("_id"))
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "single post", post)
}

func (s *Server) createPost(c *fiber.Ctx) error {
	var p postPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	post, err := s.posts.Create(c.UserContext(), claimsFrom(c), p.Title, p.Description)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Post created successfully", post)
}

func (s *Server) updatePost(c *fiber.Ctx) error {
	var p postPayload
	if err := bind(c, &p); err != nil {
		return s.fail(c, err)
	}

	post, err := s.posts.Update(c.UserContext(), claimsFrom(c), c.Query("_id"), p.Title, p.Description)
	if err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Post updated successfully", post)
}

func (s *Server) deletePost(c *fiber.Ctx) error {
	if err := s.posts.Delete(c.UserContext(), claimsFrom(c), c.Query("_id")); err != nil {
		return s.fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Post deleted successfully", nil)
}
