package http

import (
	"net/http"

	"metalya/internal/usecase"
	"metalya/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUseCase usecase.MessageUseCase
	logger         *logger.Logger
}

func NewMessageHandler(messageUseCase usecase.MessageUseCase, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		logger:         logger,
	}
}

type SendMessageRequest struct {
	Subject    string   `json:"subject" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Recipients []string `json:"recipients" binding:"required,min=1"`
}

// Send godoc
// @Summary      Send a message
// @Description  Send an internal message to one or more recipients. Each recipient gets their own copy with independent read state.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendMessageRequest true "Message"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messageUseCase.Send(c.GetString("user_id"), req.Subject, req.Content, req.Recipients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// Inbox godoc
// @Summary      Inbox
// @Description  The caller's received messages, newest first
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /messages [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	limit, offset := pagination(c)

	messages, err := h.messageUseCase.Inbox(c.GetString("user_id"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list inbox: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages), "offset": offset})
}

// MarkRead godoc
// @Summary      Mark a message read
// @Description  Record the read timestamp on the caller's copy. Idempotent: already-read messages and messages the caller has no copy of are a no-op.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Success      200  {object}  map[string]string
// @Router       /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageUseCase.MarkRead(c.Param("id"), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// Delete godoc
// @Summary      Delete a message
// @Description  Remove the caller's copy only; other recipients keep theirs.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.messageUseCase.Delete(c.Param("id"), c.GetString("user_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// UnreadCount godoc
// @Summary      Unread count
// @Description  Number of unread messages in the caller's inbox, computed fresh
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageUseCase.UnreadCount(c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to count unread messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count unread messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
