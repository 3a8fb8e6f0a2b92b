package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhsinkutay/mediatrack/internal/auth"
	"github.com/muhsinkutay/mediatrack/internal/tasks"
)

// AuthController handles registration, login and API token endpoints.
type AuthController struct {
	auth     *auth.Service
	sessions *auth.SessionManager
	tasks    *tasks.Client
}

// NewAuthController creates a new AuthController.
func NewAuthController(authSvc *auth.Service, sessionManager *auth.SessionManager, taskClient *tasks.Client) *AuthController {
	return &AuthController{auth: authSvc, sessions: sessionManager, tasks: taskClient}
}

// RegisterRequest is the JSON body for creating an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register. Provisioning of the new user's
// default collections runs on the task queue.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := ac.auth.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
		case errors.Is(err, auth.ErrRegistrationDisabled):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "registration is disabled"})
		default:
			respondServiceError(c, err, "register user")
		}
		return
	}

	if ac.tasks != nil {
		task := tasks.UserCreatedTask{UserID: user.ID}
		if _, err := ac.tasks.Add(task).Ctx(c.Request.Context()).Save(); err != nil {
			log.Printf("failed to enqueue user provisioning for user %d: %v", user.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// LoginRequest is the JSON body for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := ac.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password"})
		return
	}

	if err := ac.sessions.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "create session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout handles POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "destroy session")
		return
	}
	respondSuccess(c, "logged out")
}

// IssueToken handles POST /api/auth/token. The plaintext token is only
// returned here; the server stores a hash.
func (ac *AuthController) IssueToken(c *gin.Context) {
	token, err := ac.auth.IssueAPIToken(GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "issue api token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.auth.GetUserByID(GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"auth_type": auth.GetAuthType(c),
	})
}
