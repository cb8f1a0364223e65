package letters

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"letters-backend/internal/shared/server/middleware"
	"letters-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation and letter routes to a firm-scoped
// router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate/letter", h.generate)
	rg.GET("/letters", h.list)
	rg.GET("/letters/:letterId", h.get)
	rg.PATCH("/letters/:letterId", h.update)
	rg.DELETE("/letters/:letterId", h.delete)
	rg.POST("/letters/:letterId/finalize", h.finalize)
	rg.POST("/letters/:letterId/export", h.export)
}

func (h *Handler) generate(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)
	userID := middleware.UserIDFromContext(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	letter, err := h.Svc.Generate(c.Request.Context(), firmID, userID, GenerateInput{
		TemplateID:  req.TemplateID,
		DocumentIDs: req.DocumentIDs,
		Title:       req.Title,
	})
	if err != nil {
		h.respondErr(c, err, "failed to generate letter")
		return
	}

	respond.JSON(c, http.StatusCreated, GenerateResponse{
		LetterID: letter.ID,
		Content:  letter.Content,
		Status:   letter.Status,
	})
}

func (h *Handler) list(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	lettersList, err := h.Svc.List(c.Request.Context(), firmID, limit, offset)
	if err != nil {
		h.respondErr(c, err, "failed to list letters")
		return
	}

	resp := make([]LetterSummary, 0, len(lettersList))
	for _, letter := range lettersList {
		resp = append(resp, toSummary(letter))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	letter, err := h.Svc.Get(c.Request.Context(), firmID, c.Param("letterId"))
	if err != nil {
		h.respondErr(c, err, "failed to fetch letter")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(letter))
}

func (h *Handler) update(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	letter, err := h.Svc.Update(c.Request.Context(), firmID, c.Param("letterId"), UpdateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.respondErr(c, err, "failed to update letter")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(letter))
}

func (h *Handler) delete(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), firmID, c.Param("letterId")); err != nil {
		h.respondErr(c, err, "failed to delete letter")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) finalize(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	result, err := h.Svc.Finalize(c.Request.Context(), firmID, c.Param("letterId"))
	if err != nil {
		h.respondErr(c, err, "failed to finalize letter")
		return
	}

	respond.JSON(c, http.StatusOK, toExportResponse(result))
}

func (h *Handler) export(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	result, err := h.Svc.Export(c.Request.Context(), firmID, c.Param("letterId"))
	if err != nil {
		h.respondErr(c, err, "failed to export letter")
		return
	}

	respond.JSON(c, http.StatusOK, toExportResponse(result))
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resource not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUpstream):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "letter generation upstream failure", nil)
	case errors.Is(err, ErrStorage):
		respond.Error(c, http.StatusInternalServerError, "storage_error", fallback, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
