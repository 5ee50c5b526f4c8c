package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"filebox/internal/http/middleware"
	"filebox/internal/service"
)

// presignExpiry bounds how long a generated download URL stays valid.
const presignExpiry = 15 * time.Minute

// FileHandler exposes file metadata operations over HTTP.
type FileHandler struct {
	svc service.FileService
}

// NewFileHandler constructs a FileHandler.
func NewFileHandler(svc service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

type moveFileRequest struct {
	NewFolderID *string `json:"new_folder_id"`
}

type copyFileRequest struct {
	TargetFolderID string `json:"target_folder_id"`
}

// Upload accepts multipart/form-data with a "file" field, plus optional
// "folder_id" and comma-separated "tags" form values.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	var folderID *string
	if v := c.FormValue("folder_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder id")
		}
		folderID = &v
	}

	var tags []string
	if v := c.FormValue("tags"); v != "" {
		tags = strings.Split(v, ",")
	}

	file, err := h.svc.Upload(c.UserContext(), middleware.UserIDFromCtx(c), f, service.UploadInput{
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		FolderID:    folderID,
		Tags:        tags,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

func (h *FileHandler) Get(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	file, err := h.svc.Get(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}

// List returns all files, files in one folder (?folder_id=), or favorites
// (?favorites=true).
func (h *FileHandler) List(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	if c.QueryBool("favorites") {
		files, err := h.svc.ListFavorites(c.UserContext(), userID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(files)
	}

	var folderID *string
	if v := c.Query("folder_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid folder id")
		}
		folderID = &v
	}
	files, err := h.svc.List(c.UserContext(), userID, folderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(files)
}

func (h *FileHandler) Search(c *fiber.Ctx) error {
	files, err := h.svc.Search(c.UserContext(), middleware.UserIDFromCtx(c), c.Query("q"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(files)
}

// Download streams the file content, or returns a presigned URL as JSON
// with ?presign=true.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	userID := middleware.UserIDFromCtx(c)

	if c.QueryBool("presign") {
		url, err := h.svc.PresignDownload(c.UserContext(), userID, id, presignExpiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}

	rc, file, err := h.svc.Download(c.UserContext(), userID, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.SendStream(rc, streamSize(file.SizeInBytes))
}

// streamSize narrows a stored object size to the int SendStream expects.
// Sizes that do not fit (32-bit platforms, objects over 2 GiB) fall back to
// -1, which streams until EOF without a Content-Length.
func streamSize(n int64) int {
	if int64(int(n)) != n {
		return -1
	}
	return int(n)
}

func (h *FileHandler) Rename(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req renameRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	file, err := h.svc.Rename(c.UserContext(), middleware.UserIDFromCtx(c), id, req.NewName)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}

func (h *FileHandler) Move(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req moveFileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if !parseOptionalID(req.NewFolderID) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid target folder id")
	}
	file, err := h.svc.Move(c.UserContext(), middleware.UserIDFromCtx(c), id, req.NewFolderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}

func (h *FileHandler) UpdateTags(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req updateTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	file, err := h.svc.UpdateTags(c.UserContext(), middleware.UserIDFromCtx(c), id, req.Tags)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}

func (h *FileHandler) ToggleFavorite(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	file, err := h.svc.ToggleFavorite(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}

func (h *FileHandler) Archive(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	file, err := h.svc.Archive(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}

func (h *FileHandler) Copy(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	var req copyFileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if _, err := uuid.Parse(req.TargetFolderID); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid target folder id")
	}
	file, err := h.svc.Copy(c.UserContext(), middleware.UserIDFromCtx(c), id, req.TargetFolderID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := h.svc.Delete(c.UserContext(), middleware.UserIDFromCtx(c), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FileHandler) BatchDelete(c *fiber.Ctx) error {
	var req batchDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	if err := h.svc.BatchDelete(c.UserContext(), middleware.UserIDFromCtx(c), req.IDs); err != nil {
		return writeServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FileHandler) Restore(c *fiber.Ctx) error {
	id, ok := parseIDParam(c)
	if !ok {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	file, err := h.svc.Restore(c.UserContext(), middleware.UserIDFromCtx(c), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(file)
}
