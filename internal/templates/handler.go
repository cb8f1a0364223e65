package templates

import (
	"errors"
	"net/http"

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

// RegisterRoutes attaches template routes to a firm-scoped router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/templates", h.create)
	rg.GET("/templates", h.list)
	rg.GET("/templates/default", h.getDefault)
	rg.GET("/templates/:templateId", h.get)
	rg.PUT("/templates/:templateId", h.update)
	rg.DELETE("/templates/:templateId", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)
	userID := middleware.UserIDFromContext(c)

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	tpl, err := h.Svc.Create(c.Request.Context(), firmID, userID, toInput(req))
	if err != nil {
		h.respondErr(c, err, "failed to create template")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(tpl))
}

func (h *Handler) list(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	tpls, err := h.Svc.List(c.Request.Context(), firmID)
	if err != nil {
		h.respondErr(c, err, "failed to list templates")
		return
	}

	resp := make([]TemplateResponse, 0, len(tpls))
	for _, tpl := range tpls {
		resp = append(resp, toResponse(tpl))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	tpl, err := h.Svc.Get(c.Request.Context(), firmID, c.Param("templateId"))
	if err != nil {
		h.respondErr(c, err, "failed to fetch template")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(tpl))
}

func (h *Handler) getDefault(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	tpl, err := h.Svc.GetDefault(c.Request.Context(), firmID)
	if err != nil {
		h.respondErr(c, err, "failed to fetch default template")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(tpl))
}

func (h *Handler) update(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	tpl, err := h.Svc.Update(c.Request.Context(), firmID, c.Param("templateId"), toInput(req))
	if err != nil {
		h.respondErr(c, err, "failed to update template")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(tpl))
}

func (h *Handler) delete(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), firmID, c.Param("templateId")); err != nil {
		h.respondErr(c, err, "failed to delete template")
		return
	}

	c.Status(http.StatusNoContent)
}

func toInput(req TemplateRequest) Input {
	return Input{
		Name:             req.Name,
		LetterheadText:   req.LetterheadText,
		OpeningParagraph: req.OpeningParagraph,
		ClosingParagraph: req.ClosingParagraph,
		Sections:         req.Sections,
		IsDefault:        req.IsDefault,
	}
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
