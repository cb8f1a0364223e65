package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"letters-backend/internal/shared/server/middleware"
	"letters-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	firmID := middleware.FirmIDFromContext(c)
	if firmID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"firmId": firmID,
	}
	if userID := middleware.UserIDFromContext(c); userID != "" {
		response["userId"] = userID
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}

	respond.JSON(c, http.StatusOK, response)
}
