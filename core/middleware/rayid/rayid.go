// Package rayid assigns every request a unique id for log correlation.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName carries the ray id on the response.
const HeaderName = "X-Ray-Id"

// LocalsKey is the fiber locals key handlers read the ray id from.
const LocalsKey = "ray_id"

// New creates the ray id middleware. An id supplied by the client is kept
// so traces can span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)

		return c.Next()
	}
}
