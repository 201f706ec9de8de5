// backend-go/internal/api/handlers/upload_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/service"
)

// UploadHandler covers the staging area and its two exits: confirmation into
// permanent storage and template download.
type UploadHandler struct {
	staging *service.StagingService
	confirm *service.ConfirmService
	export  *service.ExportService
}

func NewUploadHandler(staging *service.StagingService, confirm *service.ConfirmService, export *service.ExportService) *UploadHandler {
	return &UploadHandler{staging: staging, confirm: confirm, export: export}
}

// Stage handles POST /uploads/temp: a multipart spreadsheet plus an optional
// vendor hint.
func (h *UploadHandler) Stage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, fmt.Errorf("%w: missing file", domain.ErrBadRequest))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	staged, err := h.staging.Stage(c.Request.Context(), actor, fileHeader.Filename, f, c.PostForm("mall_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staged)
}

// ListStaged handles GET /uploads/temp.
func (h *UploadHandler) ListStaged(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	files, err := h.staging.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

type assignCodeRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// AssignCode handles POST /uploads/temp/:id/codes.
func (h *UploadHandler) AssignCode(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req assignCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return
	}

	file, err := h.staging.AssignCode(c.Request.Context(), actor, c.Param("id"), req.Name, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

// Discard handles DELETE /uploads/temp/:id.
func (h *UploadHandler) Discard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.staging.Discard(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type confirmRequest struct {
	FileIDs []string `json:"file_ids" binding:"required"`
}

// Confirm handles POST /uploads/confirm.
func (h *UploadHandler) Confirm(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return
	}

	result, err := h.confirm.Confirm(c.Request.Context(), actor, req.FileIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Download handles POST /uploads/download: renders selected rows through a
// template and streams the workbook.
func (h *UploadHandler) Download(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req service.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return
	}

	result, err := h.export.Export(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
