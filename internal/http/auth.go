package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookmarks/internal/audit"
	"github.com/mrlokans/bookmarks/internal/auth"
	"github.com/mrlokans/bookmarks/internal/entities"
)

// AuthController serves registration, login, logout, and the current-user
// endpoint. Sessions back browser clients; API clients use Bearer tokens.
type AuthController struct {
	service  *auth.Service
	sessions *auth.SessionManager
	limiter  *auth.RateLimiter
	auditSvc *audit.Service
}

func NewAuthController(service *auth.Service, sessions *auth.SessionManager, limiter *auth.RateLimiter, auditSvc *audit.Service) *AuthController {
	return &AuthController{
		service:  service,
		sessions: sessions,
		limiter:  limiter,
		auditSvc: auditSvc,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       uint              `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     entities.UserRole `json:"role"`
}

func toUserResponse(user *entities.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// Register handles POST /api/auth/register. The first registered account
// becomes an admin.
func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, email, and password are required")
		return
	}

	user, err := a.service.CreateUser(req.Username, req.Email, req.Password, "")
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			respondConflict(c, "user already exists")
		case errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrEmailInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "register")
		}
		return
	}

	a.auditSvc.LogAuth(user.ID, "register", c.ClientIP(), c.Request.UserAgent(), true)

	if a.sessions != nil {
		if err := a.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	respondCreated(c, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	ip := auth.GetClientIP(c)

	if a.limiter != nil {
		if allowed, retryAfter := a.limiter.Allow(ip, req.Username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			respondError(c, http.StatusTooManyRequests, "too many login attempts")
			return
		}
	}

	user, err := a.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if a.limiter != nil {
			a.limiter.RecordFailure(ip, req.Username)
			a.limiter.RecordFailure(ip, "")
		}
		a.auditSvc.LogAuth(0, "login", ip, c.Request.UserAgent(), false)

		if errors.Is(err, auth.ErrAccountLocked) {
			respondError(c, http.StatusForbidden, err.Error())
			return
		}
		// Do not reveal whether the username or the password was wrong
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if a.limiter != nil {
		a.limiter.RecordSuccess(ip, req.Username)
	}

	if a.sessions != nil {
		if err := a.sessions.CreateSession(c.Request, user); err != nil {
			respondInternalError(c, err, "create session")
			return
		}
	}

	a.auditSvc.LogAuth(user.ID, "login", ip, c.Request.UserAgent(), true)
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout handles POST /api/auth/logout.
func (a *AuthController) Logout(c *gin.Context) {
	userID := GetUserID(c)

	if a.sessions != nil {
		if err := a.sessions.DestroySession(c.Request); err != nil {
			respondInternalError(c, err, "destroy session")
			return
		}
	}

	a.auditSvc.LogAuth(userID, "logout", c.ClientIP(), c.Request.UserAgent(), true)
	respondSuccess(c, "logged out")
}

// Me handles GET /api/auth/me.
func (a *AuthController) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := a.service.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get current user")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
