package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixhub-io/fixhub-ce/internal/auth"
	"github.com/fixhub-io/fixhub-ce/internal/middleware"
	"github.com/fixhub-io/fixhub-ce/internal/models"
)

// handleRegister creates a new worker account.
func (h *Handler) handleRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid registration payload: "+err.Error())
		return
	}

	worker, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrLoginTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Login is already taken",
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    worker,
	})
}

// handleLogin authenticates a worker and issues a token pair. Failed
// attempts are throttled per client IP and login.
func (h *Handler) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid login payload")
		return
	}

	ip := c.ClientIP()
	if blocked, retryIn := h.limiter.IsBlocked(ip, req.Login); blocked {
		c.Header("Retry-After", fmt.Sprintf("%.0f", retryIn.Seconds()))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "Too many failed login attempts, try again later",
		})
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.limiter.RecordFailure(ip, req.Login)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid login or password",
			})
			return
		}
		writeError(c, err)
		return
	}

	h.limiter.RecordSuccess(ip, req.Login)
	h.setSessionCookies(c, resp)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resp,
	})
}

// handleRefresh rotates the refresh token and issues a fresh access token.
func (h *Handler) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie("refresh_token"); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		writeBadRequest(c, "Missing refresh token")
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrSessionExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Session has expired, log in again",
			})
			return
		}
		writeError(c, err)
		return
	}

	h.setSessionCookies(c, resp)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resp,
	})
}

// handleLogout revokes the current session's refresh token.
func (h *Handler) handleLogout(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Not authenticated",
		})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), workerID); err != nil {
		writeError(c, err)
		return
	}

	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// handleProfile returns the authenticated worker.
func (h *Handler) handleProfile(c *gin.Context) {
	workerID, ok := middleware.WorkerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Not authenticated",
		})
		return
	}

	worker, err := h.workers.GetByID(c.Request.Context(), workerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worker,
	})
}

func (h *Handler) setSessionCookies(c *gin.Context, resp *models.LoginResponse) {
	c.SetCookie("auth_token", resp.Token, 0, "/", "", false, true)
	c.SetCookie("refresh_token", resp.RefreshToken, 0, "/", "", false, true)
}
