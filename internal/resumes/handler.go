package resumes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/pagination"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", middleware.Authenticated(h.create))
	rg.POST("/resumes/import", middleware.Authenticated(h.importFile))
	rg.GET("/resumes", middleware.Authenticated(h.list))
	rg.GET("/resumes/:id", middleware.Authenticated(h.get))
	rg.PATCH("/resumes/:id", middleware.Authenticated(h.update))
	rg.DELETE("/resumes/:id", middleware.Authenticated(h.delete))
}

func (h *Handler) create(c *gin.Context, p auth.Principal) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	resume, err := h.Svc.Create(c.Request.Context(), p, req)
	if err != nil {
		respond.FromError(c, err, "failed to create resume")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"resume": resume})
}

func (h *Handler) importFile(c *gin.Context, p auth.Principal) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	salary, err := parseSalary(c.PostForm("salary"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "salary must be a number", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	resume, err := h.Svc.Import(c.Request.Context(), p, ImportInput{
		FileName: fileHeader.Filename,
		Title:    c.PostForm("title"),
		Salary:   salary,
		Body:     file,
	})
	if err != nil {
		respond.FromError(c, err, "failed to import resume")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"resume": resume})
}

func (h *Handler) list(c *gin.Context, p auth.Principal) {
	result, err := h.Svc.List(c.Request.Context(), p, ListFilter{
		IDs:  c.QueryArray("id"),
		Page: pagination.FromQuery(c.Query("page")),
	})
	if err != nil {
		respond.FromError(c, err, "failed to list resumes")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) get(c *gin.Context, p auth.Principal) {
	resume, err := h.Svc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "failed to load resume")
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) update(c *gin.Context, p auth.Principal) {
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	resume, err := h.Svc.Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		respond.FromError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) delete(c *gin.Context, p auth.Principal) {
	resume, err := h.Svc.Delete(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respond.FromError(c, err, "failed to delete resume")
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func parseSalary(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
