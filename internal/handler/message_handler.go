package handler

import (
	"net/http"
	"strconv"

	"gamelobby/backend/internal/database"
	"gamelobby/backend/internal/hub"
	"gamelobby/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type MessageInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MessageResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	UserID    *uint  `json:"user_id,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func newMessageResponse(message models.Message) MessageResponse {
	return MessageResponse{
		ID:        message.ID,
		Type:      string(message.Type),
		Content:   message.Content,
		UserID:    message.UserID,
		Nickname:  message.User.Nickname,
		CreatedAt: message.CreatedAt.Unix(),
	}
}

// endregion

// isLobbyMember reports whether the user currently holds a roster slot.
func isLobbyMember(lobbyID, userID uint) bool {
	var count int64
	database.DB.Model(&models.LobbyMember{}).
		Where("lobby_id = ? AND user_id = ?", lobbyID, userID).
		Count(&count)
	return count > 0
}

// PostMessage godoc
// @Summary      Post a chat message to a lobby
// @Description  Only current roster members can post.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int          true "Lobby ID"
// @Param        input body MessageInput true "Message"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not a member of this lobby"
// @Failure      404  {object}  ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/messages [post]
func PostMessage(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	lobbyID, _ := strconv.Atoi(c.Param("id"))

	var record models.Lobby
	if err := database.DB.First(&record, lobbyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	if !isLobbyMember(record.ID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this lobby"})
		return
	}

	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.Message{
		LobbyID: record.ID,
		UserID:  &userID,
		Type:    models.MessageTypeText,
		Content: input.Content,
	}
	if err := database.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	database.DB.Preload("User").First(&message, message.ID)

	response := newMessageResponse(message)
	hub.GlobalHub.Broadcast(record.ID, hub.Event{Type: hub.EventChatMessage, Payload: response})

	c.JSON(http.StatusCreated, response)
}

// GetMessages godoc
// @Summary      List a lobby's chat messages
// @Description  Returns messages newest first. Only current roster members can read.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true "Lobby ID"
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(50)
// @Success      200 {array} MessageResponse
// @Failure      403 {object} ErrorResponse "Not a member of this lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/messages [get]
func GetMessages(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	lobbyID, _ := strconv.Atoi(c.Param("id"))

	var record models.Lobby
	if err := database.DB.First(&record, lobbyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	if !isLobbyMember(record.ID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this lobby"})
		return
	}

	_, limit, offset := pageParams(c, 50, 200)

	var messages []models.Message
	err := database.DB.Preload("User").
		Where("lobby_id = ?", record.ID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		response = append(response, newMessageResponse(message))
	}

	c.JSON(http.StatusOK, response)
}
