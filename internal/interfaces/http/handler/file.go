package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/application/project"
)

// maxUploadSize caps project file uploads at 25 MiB
const maxUploadSize = 25 << 20

// FileHandler handles project file uploads, downloads and folders
type FileHandler struct {
	BaseHandler
	fileService *project.FileService
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService *project.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload stores a multipart file upload under a project
func (h *FileHandler) Upload(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file field")
		return
	}
	if fileHeader.Size > maxUploadSize {
		h.BadRequest(c, fmt.Sprintf("File exceeds the %d MiB limit", maxUploadSize>>20))
		return
	}

	var folderID *uuid.UUID
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid folder ID")
			return
		}
		folderID = &id
	}

	body, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer body.Close()

	file, err := h.fileService.Upload(c.Request.Context(), project.UploadRequest{
		ProjectID:   projectID,
		FolderID:    folderID,
		Name:        fileHeader.Filename,
		Kind:        c.PostForm("kind"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Description: c.PostForm("description"),
		Body:        body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, file)
}

// Download streams a file's bytes with its stored content type
func (h *FileHandler) Download(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid file ID")
		return
	}

	file, body, err := h.fileService.Download(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer body.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.DataFromReader(http.StatusOK, file.SizeBytes, contentType, body, nil)
}

// List returns a project's files, optionally scoped to one folder
func (h *FileHandler) List(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var folderID *uuid.UUID
	if raw := c.Query("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid folder ID")
			return
		}
		folderID = &id
	}

	files, err := h.fileService.ListFiles(c.Request.Context(), projectID, folderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, files)
}

// ListFolders returns a project's folder tree as a flat list
func (h *FileHandler) ListFolders(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	folders, err := h.fileService.ListFolders(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, folders)
}

// CreateFolderRequest carries the input for folder creation
type CreateFolderRequest struct {
	Name     string     `json:"name" binding:"required,max=255"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CreateFolder adds a folder under a project
func (h *FileHandler) CreateFolder(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	folder, err := h.fileService.CreateFolder(c.Request.Context(), projectID, req.ParentID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, folder)
}

// Delete removes a file and its stored object
func (h *FileHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid file ID")
		return
	}
	if err := h.fileService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
