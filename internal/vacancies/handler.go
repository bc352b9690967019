package vacancies

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vacancies", middleware.Authenticated(h.create))
	rg.GET("/vacancies", middleware.Authenticated(h.list))
	rg.GET("/vacancies/:id", middleware.Authenticated(h.get))
	rg.PATCH("/vacancies/:id", middleware.Authenticated(h.update))
	rg.DELETE("/vacancies/:id", middleware.Authenticated(h.delete))
}

func (h *Handler) create(c *gin.Context, p auth.Principal) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	vacancy, err := h.Svc.Create(c.Request.Context(), p, req)
	if err != nil {
		respond.FromError(c, err, "failed to create vacancy")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"vacancy": vacancy})
}

func (h *Handler) list(c *gin.Context, p auth.Principal) {
	result, err := h.Svc.List(c.Request.Context(), p, ListFilter{
		IDs:  c.QueryArray("id"),
		Page: pagination.FromQuery(c.Query("page")),
	})
	if err != nil {
		respond.FromError(c, err, "failed to list vacancies")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) get(c *gin.Context, p auth.Principal) {
	vacancy, err := h.Svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "failed to load vacancy")
		return
	}
	respond.OK(c, gin.H{"vacancy": vacancy})
}

func (h *Handler) update(c *gin.Context, p auth.Principal) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	vacancy, err := h.Svc.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respond.FromError(c, err, "failed to update vacancy")
		return
	}
	respond.OK(c, gin.H{"vacancy": vacancy})
}

func (h *Handler) delete(c *gin.Context, p auth.Principal) {
	vacancy, err := h.Svc.Delete(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "failed to delete vacancy")
		return
	}
	respond.OK(c, gin.H{"vacancy": vacancy})
}
