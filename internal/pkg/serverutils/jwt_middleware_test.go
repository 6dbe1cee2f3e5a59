package serverutils

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestCallerID(t *testing.T) {
	app := fiber.New()

	unauthorized := func(t *testing.T, err error) {
		var ferr *fiber.Error
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, fiber.StatusUnauthorized, ferr.Code)
	}

	t.Run("missing claim", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)

		_, err := CallerID(c)
		unauthorized(t, err)
	})

	t.Run("non-string claim", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)
		c.Locals("user_id", 42)

		_, err := CallerID(c)
		unauthorized(t, err)
	})

	t.Run("malformed id", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)
		c.Locals("user_id", "not-a-uuid")

		_, err := CallerID(c)
		unauthorized(t, err)
	})

	t.Run("valid id", func(t *testing.T) {
		c := app.AcquireCtx(&fasthttp.RequestCtx{})
		defer app.ReleaseCtx(c)
		want := uuid.New()
		c.Locals("user_id", want.String())

		got, err := CallerID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
