package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const maxNameLen = 24

type GuestRequest struct {
	Name string `json:"name" binding:"required"`
}

type Handler struct {
	secret []byte
}

func NewHandler(secret []byte) *Handler {
	return &Handler{secret: secret}
}

// Guest issues an identity for a display name: a fresh player id plus
// a signed token carrying it. No account, no password; the token is
// the session.
//
// POST /auth/guest  body: {name}
func (h *Handler) Guest(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
		return
	}

	playerID := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  playerID,
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtStr, err := token.SignedString(h.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jwt":      jwtStr,
		"playerId": playerID,
		"name":     name,
	})
}
