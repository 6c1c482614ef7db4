package mirror

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Skribblers/skribbler/protocol"
)

const hiddenWordMask = "???"

func (m *Mirror) Synchronized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.synced
}

func (m *Mirror) Me() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.me
}

func (m *Mirror) RoomID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roomID
}

func (m *Mirror) Settings() protocol.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

func (m *Mirror) State() protocol.StateUpdate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return protocol.StateUpdate{Time: m.time, State: m.currentState()}
}

func (m *Mirror) Round() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.round
}

func (m *Mirror) IsOwner() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isOwner()
}

func (m *Mirror) isOwner() bool {
	return m.roomType == protocol.RoomPrivate && m.owner == m.me
}

// Drawer is the participant choosing or drawing this turn.
func (m *Mirror) Drawer() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drawer()
}

func (m *Mirror) drawer() (int, bool) {
	switch s := m.state.(type) {
	case protocol.WordSelection:
		return s.Drawer, true
	case protocol.Drawing:
		return s.Drawer, true
	}
	return 0, false
}

func (m *Mirror) IsDrawer() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.drawer()
	return ok && id == m.me
}

// Word is the plaintext word, known to the drawer, to those who guessed it
// and to everyone once the turn is over.
func (m *Mirror) Word() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch m.state.(type) {
	case protocol.Drawing, protocol.TurnResults:
		return m.word, m.word != ""
	}
	return "", false
}

// MaskedWord renders the word as a guesser sees it: one underscore per
// hidden letter, revealed hints in place and parts split by spaces.
func (m *Mirror) MaskedWord() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.state.(protocol.Drawing)
	if !ok {
		return ""
	}
	if len(d.Lengths) == 0 {
		if m.settings[protocol.SettingWordMode] == protocol.WordModeHidden {
			return hiddenWordMask
		}
		return ""
	}

	mask := []rune{}
	for i, l := range d.Lengths {
		if i > 0 {
			mask = append(mask, ' ')
		}
		mask = append(mask, []rune(strings.Repeat("_", l))...)
	}
	for _, h := range m.hints {
		c := []rune(h.Char)
		if h.Pos >= 0 && h.Pos < len(mask) && len(c) == 1 {
			mask[h.Pos] = c[0]
		}
	}
	return string(mask)
}

func (m *Mirror) Canvas() []protocol.Command {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.canvas)
}

// Players lists the roster in join order.
func (m *Mirror) Players() []Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.players)
}

// Leaderboard lists the roster by score, highest first, ties in join order.
func (m *Mirror) Leaderboard() []Player {
	players := m.Players()
	slices.SortStableFunc(players, func(a, b Player) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return players
}

// KickVotes is the last announced vote-kick tally against target.
func (m *Mirror) KickVotes(target int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kickVotes[target]
}
