package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"filebox/internal/http/middleware"
	"filebox/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Folder and
// file routes require a caller identity; health probes do not.
func RegisterRoutes(app *fiber.App, db *sql.DB, folderSvc service.FolderService, fileSvc service.FileService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	fh := NewFolderHandler(folderSvc)
	folders := app.Group("/folders", middleware.RequireUser())
	folders.Post("/", fh.Create)
	folders.Get("/", fh.List)
	folders.Get("/roots", fh.ListRoots)
	folders.Get("/tree", fh.Tree)
	folders.Get("/search", fh.Search)
	folders.Post("/batch-delete", fh.BatchDelete)
	folders.Get("/:id", fh.Get)
	folders.Get("/:id/children", fh.ListChildren)
	folders.Put("/:id/rename", fh.Rename)
	folders.Put("/:id/move", fh.Move)
	folders.Put("/:id/tags", fh.UpdateTags)
	folders.Put("/:id/favorite", fh.ToggleFavorite)
	folders.Post("/:id/restore", fh.Restore)
	folders.Delete("/:id", fh.Delete)

	flh := NewFileHandler(fileSvc)
	files := app.Group("/files", middleware.RequireUser())
	files.Post("/", flh.Upload)
	files.Get("/", flh.List)
	files.Get("/search", flh.Search)
	files.Post("/batch-delete", flh.BatchDelete)
	files.Get("/:id", flh.Get)
	files.Get("/:id/download", flh.Download)
	files.Put("/:id/rename", flh.Rename)
	files.Put("/:id/move", flh.Move)
	files.Put("/:id/tags", flh.UpdateTags)
	files.Put("/:id/favorite", flh.ToggleFavorite)
	files.Put("/:id/archive", flh.Archive)
	files.Post("/:id/copy", flh.Copy)
	files.Post("/:id/restore", flh.Restore)
	files.Delete("/:id", flh.Delete)
}
