package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const pageKey = "page"

// MaxPage bounds the page number so page offsets stay far from overflowing.
const MaxPage = 1_000_000

// ValidatePageQuery checks the "page" query parameter and stores it in c.Locals.
// A value that is not an integer in 1..MaxPage is answered with 400 Bad Request.
func ValidatePageQuery(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 || page > MaxPage {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid page number",
			"message": "page must be a positive integer no greater than " + strconv.Itoa(MaxPage) + ".",
		})
	}
	c.Locals(pageKey, page)
	return c.Next()
}

// Page returns the page validated by ValidatePageQuery, defaulting to 1.
func Page(c *fiber.Ctx) int {
	if page, ok := c.Locals(pageKey).(int); ok {
		return page
	}
	return 1
}
