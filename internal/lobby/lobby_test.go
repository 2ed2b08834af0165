package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	alice   = PlayerID(1)
	bob     = PlayerID(2)
	charlie = PlayerID(3)
)

func TestNew_StartsEmptyAndRegistering(t *testing.T) {
	req := require.New(t)

	l := New(alice, 1, 4)

	req.Equal(alice, l.Owner())
	req.Equal(uint32(1), l.FamilyID())
	req.Equal(uint8(4), l.MaxPlayers())
	req.Empty(l.Players())
	req.Equal(PhaseRegistering, l.State())
}

func TestJoin_AppendsInOrder(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 4)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))
	req.NoError(l.Join(charlie))

	req.Equal([]PlayerID{alice, bob, charlie}, l.Players())
	req.Equal(PhaseRegistering, l.State())
}

func TestJoin_FillingLobbyStartsPlay(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 2)

	req.NoError(l.Join(alice))
	req.Equal(PhaseRegistering, l.State())

	// Second join fills the lobby and must flip the phase in the same call.
	req.NoError(l.Join(bob))
	req.Equal(PhaseInPlay, l.State())
	req.Len(l.Players(), 2)
}

func TestJoin_FullLobbyRejectsNewPlayer(t *testing.T) {
	req := require.New(t)
	l := New(alice, 99, 2)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))

	err := l.Join(charlie)
	req.ErrorIs(err, ErrLobbyFull)

	// Failed join leaves the roster untouched.
	req.Equal([]PlayerID{alice, bob}, l.Players())
}

func TestJoin_DuplicateRejected(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 3)

	req.NoError(l.Join(alice))

	err := l.Join(alice)
	req.ErrorIs(err, ErrPlayerAlreadyJoined)
	req.Equal([]PlayerID{alice}, l.Players())
}

func TestJoin_DuplicateWinsOverFullAndNotOpen(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 2)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))
	req.Equal(PhaseInPlay, l.State())

	// The lobby is now both full and no longer open, but a member joining
	// again must still see the already-joined error.
	err := l.Join(alice)
	req.ErrorIs(err, ErrPlayerAlreadyJoined)
}

func TestJoin_ZeroCapacityIsBornFull(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 0)

	err := l.Join(bob)
	req.ErrorIs(err, ErrLobbyFull)
	req.Empty(l.Players())
	req.Equal(PhaseRegistering, l.State())
}

func TestLeave_RemovesPlayer(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 3)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))

	req.NoError(l.Leave(alice))

	req.Equal([]PlayerID{bob}, l.Players())
	req.Equal(PhaseRegistering, l.State())
}

func TestLeave_SwapsLastIntoVacatedSlot(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 4)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))
	req.NoError(l.Join(charlie))

	req.NoError(l.Leave(alice))

	// Charlie fills alice's slot; bob stays put.
	req.Equal([]PlayerID{charlie, bob}, l.Players())
}

func TestLeave_UnknownPlayer(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 3)

	req.NoError(l.Join(alice))

	err := l.Leave(bob)
	req.ErrorIs(err, ErrPlayerNotFound)
	req.Equal([]PlayerID{alice}, l.Players())
}

func TestLeave_BlockedOncePlayStarted(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 2)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))
	req.Equal(PhaseInPlay, l.State())

	err := l.Leave(alice)
	req.ErrorIs(err, ErrLobbyNotOpen)
	req.Len(l.Players(), 2)
	req.Equal(PhaseInPlay, l.State())
}

func TestJoin_NeverExceedsCapacity(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 3)

	for id := PlayerID(1); id <= 10; id++ {
		_ = l.Join(id)
		req.LessOrEqual(len(l.Players()), 3)
	}
	req.Equal(PhaseInPlay, l.State())
}

func TestFinish_OwnerEndsGame(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 2)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))
	req.Equal(PhaseInPlay, l.State())

	req.NoError(l.Finish(alice))
	req.Equal(PhaseFinished, l.State())

	// Finished lobbies accept no further joins or leaves.
	req.ErrorIs(l.Join(charlie), ErrLobbyFull)
	req.ErrorIs(l.Leave(bob), ErrLobbyNotOpen)
}

func TestFinish_NonOwnerRejected(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 2)

	req.NoError(l.Join(alice))
	req.NoError(l.Join(bob))

	err := l.Finish(bob)
	req.ErrorIs(err, ErrNotOwner)
	req.Equal(PhaseInPlay, l.State())
}

func TestFinish_RequiresPlayInProgress(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 2)

	err := l.Finish(alice)
	req.ErrorIs(err, ErrLobbyNotOpen)
	req.Equal(PhaseRegistering, l.State())
}

func TestRestore_RoundTrip(t *testing.T) {
	req := require.New(t)

	roster := []PlayerID{bob, charlie}
	l := Restore(alice, 7, 3, roster, PhaseRegistering)

	// Restore must copy the roster, not alias the caller's slice.
	roster[0] = PlayerID(42)
	req.Equal([]PlayerID{bob, charlie}, l.Players())

	req.NoError(l.Join(alice))
	req.Equal(PhaseInPlay, l.State())
}

func TestPlayers_ReturnsCopy(t *testing.T) {
	req := require.New(t)
	l := New(alice, 1, 3)
	req.NoError(l.Join(alice))

	got := l.Players()
	got[0] = PlayerID(99)

	req.Equal([]PlayerID{alice}, l.Players())
}
