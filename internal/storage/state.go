package storage

import (
	"github.com/park285/room-chess-bot/internal/chess"
)

// DisplayOptions are per-player board rendering preferences.
type DisplayOptions struct {
	Flip bool `json:"flip"`
}

// DefaultDisplayOptions flips the board for the black player.
func DefaultDisplayOptions() DisplayOptions { return DisplayOptions{Flip: true} }

// GroupGameState is the persisted document for one group (chat room).
type GroupGameState struct {
	Games   []*chess.Game              `json:"games"`
	Options map[string]*DisplayOptions `json:"options"`
}

func NewGroupGameState() *GroupGameState {
	return &GroupGameState{Options: map[string]*DisplayOptions{}}
}

// GameOf returns the live game player takes part in, or nil.
func (s *GroupGameState) GameOf(player string) *chess.Game {
	for _, g := range s.Games {
		if g.Has(player) {
			return g
		}
	}
	return nil
}

// RemoveGame drops the game with the given id. It reports whether one was removed.
func (s *GroupGameState) RemoveGame(id string) bool {
	for i, g := range s.Games {
		if g.ID == id {
			s.Games = append(s.Games[:i], s.Games[i+1:]...)
			return true
		}
	}
	return false
}

// OptionsOf returns player's options without creating an entry.
func (s *GroupGameState) OptionsOf(player string) DisplayOptions {
	if o, ok := s.Options[player]; ok && o != nil {
		return *o
	}
	return DefaultDisplayOptions()
}

// MutableOptions returns player's options, creating the default entry on first use.
func (s *GroupGameState) MutableOptions(player string) *DisplayOptions {
	if s.Options == nil {
		s.Options = map[string]*DisplayOptions{}
	}
	o, ok := s.Options[player]
	if !ok || o == nil {
		d := DefaultDisplayOptions()
		o = &d
		s.Options[player] = o
	}
	return o
}

// Clone returns a deep copy.
func (s *GroupGameState) Clone() *GroupGameState {
	c := &GroupGameState{
		Games:   make([]*chess.Game, 0, len(s.Games)),
		Options: make(map[string]*DisplayOptions, len(s.Options)),
	}
	for _, g := range s.Games {
		c.Games = append(c.Games, g.Clone())
	}
	for k, v := range s.Options {
		if v == nil {
			continue
		}
		o := *v
		c.Options[k] = &o
	}
	return c
}

// normalize repairs documents written by older versions or edited by hand.
func (s *GroupGameState) normalize() {
	if s.Options == nil {
		s.Options = map[string]*DisplayOptions{}
	}
	games := s.Games[:0]
	for _, g := range s.Games {
		if g != nil && g.White != "" && g.Black != "" {
			games = append(games, g)
		}
	}
	s.Games = games
}
