package handler

import (
	"errors"
	"net/http"
	"strconv"

	"gamelobby/backend/internal/database"
	"gamelobby/backend/internal/hub"
	"gamelobby/backend/internal/lobby"
	"gamelobby/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// region --- DTOs ---

// LobbyInput carries the creation parameters. The family tag is an opaque
// grouping number and is deliberately not checked against the catalog; the
// capacity is likewise taken as-is, so a zero-capacity lobby is born full.
type LobbyInput struct {
	FamilyID   uint32 `json:"family_id"`
	MaxPlayers uint8  `json:"max_players"`
}

type LobbyResponse struct {
	ID         uint                 `json:"id"`
	FamilyID   uint32               `json:"family_id"`
	MaxPlayers uint8                `json:"max_players"`
	Phase      string               `json:"phase"`
	Owner      PublicUserResponse   `json:"owner"`
	Players    []PublicUserResponse `json:"players"`
	Joined     bool                 `json:"joined"`
}

func newLobbyResponse(record models.Lobby, viewerID uint) LobbyResponse {
	players := make([]PublicUserResponse, 0, len(record.Members))
	joined := false
	for _, member := range record.Members {
		players = append(players, newPublicUserResponse(member.User))
		if member.UserID == viewerID {
			joined = true
		}
	}

	return LobbyResponse{
		ID:         record.ID,
		FamilyID:   record.FamilyID,
		MaxPlayers: record.MaxPlayers,
		Phase:      record.Phase,
		Owner:      newPublicUserResponse(record.Owner),
		Players:    players,
		Joined:     joined,
	}
}

// endregion

// region --- State machine plumbing ---

// membersInOrder preloads roster rows in their stored order, so the state
// machine sees exactly the roster it saved last time.
func membersInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// lobbyLockQuery takes a row-level lock on the lobby and loads its roster
// in stored order. Membership operations on one lobby must run one at a
// time; without the lock, two joins racing for the last slot would both
// restore the same roster and both pass the capacity check.
func lobbyLockQuery(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Members", membersInOrder)
}

func lockLobby(tx *gorm.DB, lobbyID any) (models.Lobby, error) {
	var record models.Lobby
	err := lobbyLockQuery(tx).First(&record, lobbyID).Error
	return record, err
}

// restoreLobby rebuilds the membership state machine from a persisted row.
func restoreLobby(record models.Lobby) *lobby.Lobby {
	players := make([]lobby.PlayerID, 0, len(record.Members))
	for _, member := range record.Members {
		players = append(players, lobby.PlayerID(member.UserID))
	}
	return lobby.Restore(
		lobby.PlayerID(record.OwnerID),
		record.FamilyID,
		record.MaxPlayers,
		players,
		lobby.Phase(record.Phase),
	)
}

// saveRoster rewrites the roster rows with fresh positions. Rewriting the
// whole roster keeps join (append) and leave (swap-remove) symmetric.
func saveRoster(tx *gorm.DB, lobbyID uint, players []lobby.PlayerID) error {
	if err := tx.Where("lobby_id = ?", lobbyID).Delete(&models.LobbyMember{}).Error; err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}

	rows := make([]models.LobbyMember, 0, len(players))
	for i, player := range players {
		rows = append(rows, models.LobbyMember{LobbyID: lobbyID, UserID: uint(player), Position: i})
	}
	return tx.Create(&rows).Error
}

// lobbyErrorStatus maps the closed error set of the membership state
// machine onto HTTP statuses.
func lobbyErrorStatus(err error) int {
	switch {
	case errors.Is(err, lobby.ErrPlayerAlreadyJoined),
		errors.Is(err, lobby.ErrLobbyFull),
		errors.Is(err, lobby.ErrLobbyNotOpen):
		return http.StatusConflict
	case errors.Is(err, lobby.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrNotOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondLobbyError(c *gin.Context, err error) {
	c.JSON(lobbyErrorStatus(err), gin.H{"error": err.Error()})
}

// endregion

// CreateLobby godoc
// @Summary      Create a new lobby
// @Description  Creates a lobby with the caller as owner. The owner is not a member until they join.
// @Tags         lobbies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LobbyInput true "Lobby Info"
// @Success      201  {object}  LobbyResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /lobbies [post]
func CreateLobby(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input LobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := models.Lobby{
		OwnerID:    user.ID,
		FamilyID:   input.FamilyID,
		MaxPlayers: input.MaxPlayers,
		Phase:      string(lobby.PhaseRegistering),
	}

	if err := database.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lobby"})
		return
	}

	record.Owner = user
	c.JSON(http.StatusCreated, newLobbyResponse(record, user.ID))
}

// SearchLobbies godoc
// @Summary      Search for lobbies
// @Description  Gets a paginated list of lobbies, newest first, optionally filtered by family tag and phase.
// @Tags         lobbies
// @Produce      json
// @Param        family_id query int    false "Filter by family tag"
// @Param        phase     query string false "Lobby phase" default(registering)
// @Param        page      query int    false "Page number" default(1)
// @Param        limit     query int    false "Items per page" default(10)
// @Success      200 {array} LobbyResponse
// @Router       /lobbies [get]
func SearchLobbies(c *gin.Context) {
	viewerID := viewerIDFromContext(c)
	_, limit, offset := pageParams(c, 10, 100)

	query := database.DB.Model(&models.Lobby{}).
		Preload("Owner").
		Preload("Members", membersInOrder).
		Preload("Members.User").
		Where("phase = ?", c.DefaultQuery("phase", string(lobby.PhaseRegistering)))

	if familyID := c.Query("family_id"); familyID != "" {
		query = query.Where("family_id = ?", familyID)
	}

	var lobbies []models.Lobby
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&lobbies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list lobbies"})
		return
	}

	response := make([]LobbyResponse, 0, len(lobbies))
	for _, record := range lobbies {
		response = append(response, newLobbyResponse(record, viewerID))
	}

	c.JSON(http.StatusOK, response)
}

// GetLobbyByID godoc
// @Summary      Get a lobby by ID
// @Description  Returns the lobby's phase and its roster in current order.
// @Tags         lobbies
// @Produce      json
// @Param        id path int true "Lobby ID"
// @Success      200 {object} LobbyResponse
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Router       /lobbies/{id} [get]
func GetLobbyByID(c *gin.Context) {
	lobbyID, _ := strconv.Atoi(c.Param("id"))
	viewerID := viewerIDFromContext(c)

	var record models.Lobby
	err := database.DB.
		Preload("Owner").
		Preload("Members", membersInOrder).
		Preload("Members.User").
		First(&record, lobbyID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	c.JSON(http.StatusOK, newLobbyResponse(record, viewerID))
}

// JoinLobby godoc
// @Summary      Join a lobby
// @Description  Adds the caller to the roster. Filling the last slot starts play in the same request.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {object} map[string]string "{"message": "Joined lobby successfully", "phase": "..."}"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "Already joined, lobby full, or registration closed"
// @Router       /lobbies/{id}/join [post]
func JoinLobby(c *gin.Context) {
	userID, _ := c.Get("userID")
	lobbyID, _ := strconv.Atoi(c.Param("id"))

	tx := database.DB.Begin()

	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	record, err := lockLobby(tx, lobbyID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	// Membership in a different lobby blocks the join here; membership in
	// this lobby falls through so the state machine reports it as a
	// duplicate join.
	if user.CurrentLobbyID != nil && *user.CurrentLobbyID != record.ID {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "User is already in another lobby"})
		return
	}

	state := restoreLobby(record)
	if err := state.Join(lobby.PlayerID(user.ID)); err != nil {
		tx.Rollback()
		respondLobbyError(c, err)
		return
	}

	if err := saveRoster(tx, record.ID, state.Players()); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roster"})
		return
	}

	phaseChanged := string(state.State()) != record.Phase
	if phaseChanged {
		if err := tx.Model(&record).Update("phase", string(state.State())).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lobby"})
			return
		}
	}

	if err := tx.Model(&user).Update("current_lobby_id", record.ID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user's lobby"})
		return
	}

	tx.Commit()

	hub.GlobalHub.Broadcast(record.ID, hub.Event{
		Type:    hub.EventPlayerJoined,
		Payload: gin.H{"user_id": user.ID, "nickname": user.Nickname},
	})
	if phaseChanged {
		hub.GlobalHub.Broadcast(record.ID, hub.Event{
			Type:    hub.EventPhaseChanged,
			Payload: gin.H{"phase": string(state.State())},
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined lobby successfully", "phase": string(state.State())})
}

// LeaveLobby godoc
// @Summary      Leave the current lobby
// @Description  Removes the caller from their lobby's roster. Not allowed once play has started.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string "{"message": "Left lobby successfully"}"
// @Failure      404 {object} ErrorResponse "User is not in a lobby"
// @Failure      409 {object} ErrorResponse "Registration closed"
// @Router       /lobbies/leave [post]
func LeaveLobby(c *gin.Context) {
	userID, _ := c.Get("userID")

	tx := database.DB.Begin()

	var user models.User
	if err := tx.First(&user, userID).Error; err != nil || user.CurrentLobbyID == nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not in a lobby"})
		return
	}

	record, err := lockLobby(tx, *user.CurrentLobbyID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	state := restoreLobby(record)
	if err := state.Leave(lobby.PlayerID(user.ID)); err != nil {
		tx.Rollback()
		respondLobbyError(c, err)
		return
	}

	if err := saveRoster(tx, record.ID, state.Players()); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roster"})
		return
	}

	if err := tx.Model(&user).Update("current_lobby_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave lobby"})
		return
	}

	tx.Commit()

	hub.GlobalHub.Broadcast(record.ID, hub.Event{
		Type:    hub.EventPlayerLeft,
		Payload: gin.H{"user_id": user.ID, "nickname": user.Nickname},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Left lobby successfully"})
}

// FinishLobby godoc
// @Summary      Finish a lobby (Owner only)
// @Description  Moves an in-play lobby to finished and frees its members to join other lobbies.
// @Tags         lobbies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Lobby ID"
// @Success      200 {object} map[string]string "{"message": "Lobby finished"}"
// @Failure      403 {object} ErrorResponse "Only the owner can finish the lobby"
// @Failure      404 {object} ErrorResponse "Lobby not found"
// @Failure      409 {object} ErrorResponse "Lobby is not in play"
// @Router       /lobbies/{id}/finish [post]
func FinishLobby(c *gin.Context) {
	userID, _ := c.Get("userID")
	lobbyID, _ := strconv.Atoi(c.Param("id"))

	tx := database.DB.Begin()

	record, err := lockLobby(tx, lobbyID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	state := restoreLobby(record)
	if err := state.Finish(lobby.PlayerID(userID.(uint))); err != nil {
		tx.Rollback()
		respondLobbyError(c, err)
		return
	}

	if err := tx.Model(&record).Update("phase", string(state.State())).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lobby"})
		return
	}

	// The roster stays on the lobby for the record; the players themselves
	// are released so they can join elsewhere.
	if err := tx.Model(&models.User{}).Where("current_lobby_id = ?", record.ID).Update("current_lobby_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release members"})
		return
	}

	tx.Commit()

	hub.GlobalHub.Broadcast(record.ID, hub.Event{
		Type:    hub.EventPhaseChanged,
		Payload: gin.H{"phase": string(state.State())},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Lobby finished"})
}

// viewerIDFromContext returns the authenticated user's ID, or zero for
// anonymous requests behind the optional auth middleware.
func viewerIDFromContext(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
