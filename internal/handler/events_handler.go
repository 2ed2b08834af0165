package handler

import (
	"io"
	"net/http"
	"strconv"

	"gamelobby/backend/internal/database"
	"gamelobby/backend/internal/hub"
	"gamelobby/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// LobbyEvents godoc
// @Summary      Subscribe to a lobby's event stream
// @Description  Server-sent events: player_joined, player_left, phase_changed, chat_message.
// @Tags         lobbies
// @Produce      text/event-stream
// @Param        id path int true "Lobby ID"
// @Success      200 {string} string "SSE stream"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id}/events [get]
func LobbyEvents(c *gin.Context) {
	lobbyID, _ := strconv.Atoi(c.Param("id"))

	var record models.Lobby
	if err := database.DB.First(&record, lobbyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(record.ID, client)
	defer hub.GlobalHub.Unsubscribe(record.ID, client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case raw, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(raw))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
