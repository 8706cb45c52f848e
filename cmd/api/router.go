package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	messageUsecase "friendlychat-backend/internal/message/usecase"
	tokenRepo "friendlychat-backend/internal/token/repository"
)

type registerTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

type postMessageRequest struct {
	Name     string `json:"name" binding:"required"`
	Text     string `json:"text"`
	PhotoURL string `json:"photoUrl"`
}

func SetupRoutes(r *gin.Engine, messages messageUsecase.MessageUsecase, tokens tokenRepo.TokenRepository) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Device token registry
		api.POST("/tokens", func(c *gin.Context) {
			var req registerTokenRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := tokens.SaveToken(req.Token, req.DeviceInfo); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "registered"})
		})

		api.DELETE("/tokens/:token", func(c *gin.Context) {
			if err := tokens.DeleteToken(c.Param("token")); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "removed"})
		})

		// Message posting for clients
		api.POST("/messages", func(c *gin.Context) {
			var req postMessageRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			message, err := messages.PostMessage(c.Request.Context(), req.Name, req.Text, req.PhotoURL)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
				return
			}
			c.JSON(http.StatusCreated, message)
		})
	}
}
