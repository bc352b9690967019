package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

// TokenSigner issues session tokens for authenticated users.
type TokenSigner interface {
	Sign(p auth.Principal, email string) (string, error)
}

type Handler struct {
	Svc    *Service
	Tokens TokenSigner
}

func NewHandler(svc *Service, tokens TokenSigner) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

// RegisterPublicRoutes attaches the routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches the session-scoped routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth", middleware.Authenticated(h.current))
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), RegisterInput(req))
	if err != nil {
		respond.FromError(c, err, "failed to register user")
		return
	}
	h.session(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.FromError(c, err, "failed to log in")
		return
	}
	h.session(c, http.StatusOK, user)
}

func (h *Handler) current(c *gin.Context, p auth.Principal) {
	user, err := h.Svc.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		respond.FromError(c, err, "failed to load user")
		return
	}
	respond.OK(c, gin.H{"user": user})
}

func (h *Handler) session(c *gin.Context, status int, user User) {
	token, err := h.Tokens.Sign(auth.Principal{UserID: user.ID, Role: string(user.Role)}, user.Email)
	if err != nil {
		respond.FromError(c, err, "failed to issue token")
		return
	}
	respond.JSON(c, status, sessionResponse{Token: token, User: user})
}
