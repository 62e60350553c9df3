package handlers

import (
	"strconv"

	"github.com/arnold/okrtrack-api/internal/guard"
	"github.com/arnold/okrtrack-api/internal/review"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ruleRefused maps a state-machine refusal onto its HTTP status.
func ruleRefused(c *fiber.Ctx, e *review.RuleError) error {
	return c.Status(e.Status).JSON(fiber.Map{
		"error": e.Message,
	})
}

// accessDenied maps a guard miss onto its HTTP status.
func accessDenied(c *fiber.Ctx, check guard.Check) error {
	return c.Status(check.Status).JSON(fiber.Map{
		"error": check.Message,
	})
}

// Pagination bounds for list endpoints.
const (
	defaultLimit = 50
	maxLimit     = 1000
)

// paging clamps limit/offset query params into sane bounds.
func paging(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// pageEnvelope is the shared list-response shape.
func pageEnvelope(data interface{}, limit, offset, returned int) fiber.Map {
	return fiber.Map{
		"data": data,
		"page": fiber.Map{
			"limit":    limit,
			"offset":   offset,
			"returned": returned,
		},
	}
}
