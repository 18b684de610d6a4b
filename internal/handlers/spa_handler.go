package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// RegisterSPA serves the built frontend from dir and answers every other GET
// with its index.html so client-side routes resolve. Register it last.
func RegisterSPA(app *fiber.App, dir string) {
	app.Static("/", dir)

	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}
