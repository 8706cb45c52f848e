package api

import (
	"github.com/gin-gonic/gin"

	messageUsecase "friendlychat-backend/internal/message/usecase"
	tokenRepo "friendlychat-backend/internal/token/repository"
)

// Handler owns the HTTP surface of the backend.
type Handler struct {
	router *gin.Engine
}

// NewHandler wires the gin router with all routes.
func NewHandler(messages messageUsecase.MessageUsecase, tokens tokenRepo.TokenRepository) *Handler {
	router := gin.Default()
	SetupRoutes(router, messages, tokens)
	return &Handler{router: router}
}

// Start runs the HTTP server on the given address.
func (h *Handler) Start(addr string) error {
	return h.router.Run(addr)
}
