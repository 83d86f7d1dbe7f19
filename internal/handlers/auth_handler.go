package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rizalfh/paylane/internal/helpers"
	"github.com/rizalfh/paylane/internal/models"
	"github.com/rizalfh/paylane/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	store store.Store
}

func NewAuthHandler(s store.Store) *AuthHandler {
	return &AuthHandler{store: s}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a staff account and issues a 24h session token for the
// admin dashboard.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	staff, err := h.store.StaffByEmail(c.Request.Context(), req.Email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": staff.Email,
		"role":  staff.Role,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	err = h.store.CreateAuditLog(c.Request.Context(), &models.AuditLog{
		Actor:  staff.Email,
		Action: "login",
		Entity: "staff",
	})
	if err != nil {
		logrus.WithError(err).WithField("actor", staff.Email).Warn("failed to write audit log")
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"staff": gin.H{
			"id":    staff.ID,
			"email": staff.Email,
			"role":  staff.Role,
		},
	})
}
