package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/models"
	"recolecta/internal/stores"
)

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.wait(c, latency.OpRegister) {
		return
	}

	user, err := h.Users.Register(c.Request.Context(), profile)
	if err != nil {
		if errors.Is(err, stores.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": stores.RegisterErrorMessage})
			return
		}
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")
	c.JSON(http.StatusCreated, gin.H{"user": prepareUserResponse(user)})
}

func (h *Handler) Login(c *gin.Context) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.wait(c, latency.OpLogin) {
		return
	}

	user, err := h.Users.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, stores.ErrInvalidCredentials) {
			logrus.WithField("email", body.Email).Warn("Login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": stores.LoginErrorMessage})
			return
		}
		respondError(c, err)
		return
	}

	token, err := h.Tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

// Logout ends the stored session when it belongs to the caller. The
// caller's token itself stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	userID := middleware.UserIDFrom(c)
	ended, err := h.Users.EndSession(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id":       userID,
		"session_ended": ended,
	}).Info("User logged out")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session reports the stored session to its owner together with the last
// login and registration error messages. Other callers see it as closed.
func (h *Handler) Session(c *gin.Context) {
	st := h.Users.Session()

	var user gin.H
	authenticated := st.OwnedBy(middleware.UserIDFrom(c))
	if authenticated {
		user = prepareUserResponse(*st.User)
	}
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": authenticated,
		"user":            user,
		"loginError":      st.LoginError,
		"registerError":   st.RegisterError,
	})
}

// prepareUserResponse is the public view of a user; it never includes the
// password.
func prepareUserResponse(user models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"idType":    user.IDType,
		"idNumber":  user.IDNumber,
		"address":   user.Address,
		"phoneCode": user.PhoneCode,
		"phone":     user.Phone,
		"points":    user.Points,
		"email":     user.Email,
		"role":      user.Role,
	}
}

func prepareUsersResponse(users []models.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, prepareUserResponse(u))
	}
	return out
}
