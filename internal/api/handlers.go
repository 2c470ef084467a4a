package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// ChatRequest is the POST /chat payload. ConversationID is optional; a
// fresh conversation is started when it is empty.
type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleChat runs one agent turn and returns the chat result.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	result, err := s.agent.Chat(c.Context(), model.ChatInput{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		message := errx.SystemErrorMessage
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			status = appErr.Status
			message = appErr.Message
		}
		logx.Error().Str("conversation_id", req.ConversationID).Err(err).Msg("Chat request failed")
		return c.Status(status).JSON(ErrorResponse{Error: message})
	}

	return c.JSON(result)
}
