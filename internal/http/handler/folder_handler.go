package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"filebox/internal/http/middleware"
	"filebox/internal/service"
)

// FolderHandler exposes folder tree operations over HTTP. Handlers stay
// thin: parse, delegate to the service, translate errors.
type FolderHandler struct {
	svc service.FolderService
}

// NewFolderHandler constructs a FolderHandler.
func NewFolderHandler(svc service.FolderService) *FolderHandler {
	return &FolderHandler{svc: svc}
}

type createFolderRequest struct {
	Name           string   `json:"name"`
	ParentFolderID *string  `json:"parent_folder_id"`
	Tags           []string `json:"tags"`
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

type moveFolderRequest struct {
	NewParentFolderID *string `json:"new_parent_folder_id"`
}

type updateTagsRequest struct {
	Tags []string `json:"tags"`
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// parseIDParam validates the :id path parameter as a UUID.
func parseIDParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// parseOptionalID validates an optional UUID reference from a request body.
func parseOptionalID(id *string) bool {
	if id == nil {
		return true
	}
	_, err := uuid.Parse(*id)
	return err == nil
}

func (h *FolderHandler) Create(c *fiber.Ctx) error {
	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if !parseOptionalID(req.ParentFolderID) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid parent folder id")
	}

	folder, err := h.svc.Create(c.UserContext(), middleware.UserIDFromCtx(c), req.Name, req.ParentFolderID, req.Tags)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(folder)
}

func (h *FolderHandler) Get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	folder, err := h.svc.Get(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folder)
}

// List returns all folders, or only favorites with ?favorites=true.
func (h *FolderHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	if c.QueryBool("favorites") {
		folders, err := h.svc.ListFavorites(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(folders)
	}
	folders, err := h.svc.ListAll(c.UserContext(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folders)
}

// ListRoots returns root-level folders ordered by name.
func (h *FolderHandler) ListRoots(c *fiber.Ctx) error {
	folders, err := h.svc.ListChildren(c.UserContext(), middleware.UserIDFromCtx(c), nil)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folders)
}

func (h *FolderHandler) ListChildren(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	folders, err := h.svc.ListChildren(c.UserContext(), middleware.UserIDFromCtx(c), &id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folders)
}

func (h *FolderHandler) Search(c *fiber.Ctx) error {
	folders, err := h.svc.Search(c.UserContext(), middleware.UserIDFromCtx(c), c.Query("q"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folders)
}

func (h *FolderHandler) Tree(c *fiber.Ctx) error {
	tree, err := h.svc.BuildTree(c.UserContext(), middleware.UserIDFromCtx(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(tree)
}

func (h *FolderHandler) Rename(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	folder, err := h.svc.Rename(c.UserContext(), middleware.UserIDFromCtx(c), id, req.NewName)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folder)
}

func (h *FolderHandler) Move(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req moveFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if !parseOptionalID(req.NewParentFolderID) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid target folder id")
	}
	folder, err := h.svc.Move(c.UserContext(), middleware.UserIDFromCtx(c), id, req.NewParentFolderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folder)
}

func (h *FolderHandler) UpdateTags(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req updateTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	folder, err := h.svc.UpdateTags(c.UserContext(), middleware.UserIDFromCtx(c), id, req.Tags)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folder)
}

func (h *FolderHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	folder, err := h.svc.ToggleFavorite(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folder)
}

func (h *FolderHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := h.svc.Delete(c.UserContext(), middleware.UserIDFromCtx(c), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FolderHandler) BatchDelete(c *fiber.Ctx) error {
	var req batchDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := h.svc.BatchDelete(c.UserContext(), middleware.UserIDFromCtx(c), req.IDs); err != nil {
		return writeServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FolderHandler) Restore(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	folder, err := h.svc.Restore(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(folder)
}
