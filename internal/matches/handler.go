package matches

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
	rg.POST("/matches", middleware.Authenticated(h.create))
	rg.GET("/matches", middleware.Authenticated(h.list))
	rg.GET("/matches/:id", middleware.Authenticated(h.get))
	rg.PATCH("/matches/:id", middleware.Authenticated(h.update))
}

type updateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) create(c *gin.Context, p auth.Principal) {
	var req ProposeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	m, err := h.Svc.Propose(c.Request.Context(), p, req)
	if err != nil {
		respond.FromError(c, err, "failed to create match")
		return
	}
	c.Set("matchId", m.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"match": m})
}

func (h *Handler) update(c *gin.Context, p auth.Principal) {
	id := c.Param("id")
	c.Set("matchId", id)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		respond.FromError(c, err, "invalid status")
		return
	}

	t, err := h.Svc.UpdateStatus(c.Request.Context(), p, id, next)
	if err != nil {
		respond.FromError(c, err, "failed to update match")
		return
	}
	c.Set("statusTransition", string(t.From)+"->"+string(t.Match.Status))
	respond.OK(c, gin.H{"match": t.Match})
}

func (h *Handler) list(c *gin.Context, p auth.Principal) {
	result, err := h.Svc.List(c.Request.Context(), p, pagination.FromQuery(c.Query("page")))
	if err != nil {
		respond.FromError(c, err, "failed to list matches")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) get(c *gin.Context, p auth.Principal) {
	c.Set("matchId", c.Param("id"))
	m, err := h.Svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "failed to load match")
		return
	}
	respond.OK(c, gin.H{"match": m})
}
