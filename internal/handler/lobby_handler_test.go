package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gamelobby/backend/internal/database"
	"gamelobby/backend/internal/lobby"
	"gamelobby/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// testDB opens a gorm handle against an unreachable server. Opening is
// lazy, so clause-building tests work offline and any query that actually
// executes fails.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=test dbname=test sslmode=disable"), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func TestLobbyErrorStatus(t *testing.T) {
	req := require.New(t)

	req.Equal(http.StatusConflict, lobbyErrorStatus(lobby.ErrPlayerAlreadyJoined))
	req.Equal(http.StatusConflict, lobbyErrorStatus(lobby.ErrLobbyFull))
	req.Equal(http.StatusConflict, lobbyErrorStatus(lobby.ErrLobbyNotOpen))
	req.Equal(http.StatusNotFound, lobbyErrorStatus(lobby.ErrPlayerNotFound))
	req.Equal(http.StatusForbidden, lobbyErrorStatus(lobby.ErrNotOwner))
	req.Equal(http.StatusInternalServerError, lobbyErrorStatus(gorm.ErrInvalidDB))
}

func TestRestoreLobby_PreservesStoredOrder(t *testing.T) {
	req := require.New(t)

	record := models.Lobby{
		Model:      gorm.Model{ID: 5},
		OwnerID:    1,
		FamilyID:   9,
		MaxPlayers: 3,
		Phase:      string(lobby.PhaseRegistering),
		Members: []models.LobbyMember{
			{LobbyID: 5, UserID: 3, Position: 0},
			{LobbyID: 5, UserID: 1, Position: 1},
		},
	}

	state := restoreLobby(record)

	req.Equal([]lobby.PlayerID{3, 1}, state.Players())
	req.Equal(lobby.PhaseRegistering, state.State())
	req.Equal(lobby.PlayerID(1), state.Owner())

	// One slot left; filling it flips the phase, as if it had never been
	// persisted in between.
	req.NoError(state.Join(2))
	req.Equal(lobby.PhaseInPlay, state.State())
}

func TestLobbyLockQuery_TakesRowLock(t *testing.T) {
	req := require.New(t)

	q := lobbyLockQuery(testDB(t).Session(&gorm.Session{}))

	// Membership operations must serialize per lobby: the fetch has to
	// carry FOR UPDATE, or two joins racing for the last slot would both
	// see the same roster and both pass the capacity check.
	locking, ok := q.Statement.Clauses["FOR"].Expression.(clause.Locking)
	req.True(ok)
	req.Equal("UPDATE", locking.Strength)
	req.Contains(q.Statement.Preloads, "Members")
}

func TestSearchLobbies_DatabaseErrorReturns500(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)

	old := database.DB
	database.DB = testDB(t)
	t.Cleanup(func() { database.DB = old })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/lobbies", nil)

	SearchLobbies(c)

	req.Equal(http.StatusInternalServerError, w.Code)
}

func TestNewLobbyResponse_MarksViewerMembership(t *testing.T) {
	req := require.New(t)

	record := models.Lobby{
		Model:      gorm.Model{ID: 8},
		OwnerID:    1,
		FamilyID:   2,
		MaxPlayers: 4,
		Phase:      string(lobby.PhaseRegistering),
		Owner:      models.User{Model: gorm.Model{ID: 1}, Nickname: "owner"},
		Members: []models.LobbyMember{
			{LobbyID: 8, UserID: 1, Position: 0, User: models.User{Model: gorm.Model{ID: 1}, Nickname: "owner"}},
			{LobbyID: 8, UserID: 2, Position: 1, User: models.User{Model: gorm.Model{ID: 2}, Nickname: "guest"}},
		},
	}

	asMember := newLobbyResponse(record, 2)
	req.True(asMember.Joined)
	req.Len(asMember.Players, 2)
	req.Equal("owner", asMember.Players[0].Nickname)
	req.Equal("guest", asMember.Players[1].Nickname)

	asStranger := newLobbyResponse(record, 99)
	req.False(asStranger.Joined)

	asAnonymous := newLobbyResponse(record, 0)
	req.False(asAnonymous.Joined)
}
