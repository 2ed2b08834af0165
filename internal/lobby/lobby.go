// Package lobby implements the membership state machine for a single game
// lobby: who has joined, capacity enforcement, and the Registering ->
// InPlay -> Finished phase progression. It performs no I/O; loading and
// saving lobby state around each operation is the caller's job.
package lobby

import (
	"errors"
	"slices"
)

var (
	ErrLobbyFull           = errors.New("lobby is full")
	ErrLobbyNotOpen        = errors.New("lobby is not open for registration")
	ErrPlayerAlreadyJoined = errors.New("player has already joined")
	ErrPlayerNotFound      = errors.New("player not found in lobby")
	ErrNotOwner            = errors.New("caller is not the lobby owner")
)

// Phase is the lobby's lifecycle stage. Transitions only move forward.
type Phase string

const (
	PhaseRegistering Phase = "registering"
	PhaseInPlay      Phase = "in_play"
	PhaseFinished    Phase = "finished"
)

// PlayerID identifies a participant. The state machine only ever compares
// these values; it attaches no meaning to them.
type PlayerID uint

// Lobby is a fixed-capacity group of players tagged with a family ID that
// groups lobbies of the same game type. The tag is opaque here and never
// validated.
type Lobby struct {
	owner      PlayerID
	familyID   uint32
	maxPlayers uint8
	players    []PlayerID
	phase      Phase
}

// New creates an empty lobby in the Registering phase, owned by the caller.
// A maxPlayers of zero is accepted; such a lobby is born full and every
// Join fails with ErrLobbyFull.
func New(owner PlayerID, familyID uint32, maxPlayers uint8) *Lobby {
	return &Lobby{
		owner:      owner,
		familyID:   familyID,
		maxPlayers: maxPlayers,
		players:    []PlayerID{},
		phase:      PhaseRegistering,
	}
}

// Restore rebuilds a lobby from persisted fields. The roster slice is
// copied so the caller's backing array is never aliased.
func Restore(owner PlayerID, familyID uint32, maxPlayers uint8, players []PlayerID, phase Phase) *Lobby {
	return &Lobby{
		owner:      owner,
		familyID:   familyID,
		maxPlayers: maxPlayers,
		players:    slices.Clone(players),
		phase:      phase,
	}
}

// Join adds the caller to the roster. Checks run in a fixed order so an
// already-joined caller always gets ErrPlayerAlreadyJoined, even when the
// lobby is also full or closed. When the join fills the lobby, the phase
// advances to InPlay in the same operation.
func (l *Lobby) Join(caller PlayerID) error {
	if slices.Contains(l.players, caller) {
		return ErrPlayerAlreadyJoined
	}
	if len(l.players) >= int(l.maxPlayers) {
		return ErrLobbyFull
	}
	if l.phase != PhaseRegistering {
		return ErrLobbyNotOpen
	}

	l.players = append(l.players, caller)

	if len(l.players) == int(l.maxPlayers) {
		l.phase = PhaseInPlay
	}
	return nil
}

// Leave removes the caller from the roster. Only allowed while the lobby
// is still registering. The last player is swapped into the vacated slot,
// so the relative order of the remaining roster is not preserved.
func (l *Lobby) Leave(caller PlayerID) error {
	if l.phase != PhaseRegistering {
		return ErrLobbyNotOpen
	}

	i := slices.Index(l.players, caller)
	if i < 0 {
		return ErrPlayerNotFound
	}

	last := len(l.players) - 1
	l.players[i] = l.players[last]
	l.players = l.players[:last]
	return nil
}

// Finish moves an in-play lobby to Finished. Only the owner may do this;
// a lobby that never started cannot be finished.
func (l *Lobby) Finish(caller PlayerID) error {
	if caller != l.owner {
		return ErrNotOwner
	}
	if l.phase != PhaseInPlay {
		return ErrLobbyNotOpen
	}

	l.phase = PhaseFinished
	return nil
}

// Players returns a copy of the roster in its current internal order.
// After a Leave this order may differ from join order.
func (l *Lobby) Players() []PlayerID {
	return slices.Clone(l.players)
}

// State returns the current phase.
func (l *Lobby) State() Phase {
	return l.phase
}

func (l *Lobby) Owner() PlayerID {
	return l.owner
}

func (l *Lobby) FamilyID() uint32 {
	return l.familyID
}

func (l *Lobby) MaxPlayers() uint8 {
	return l.maxPlayers
}
