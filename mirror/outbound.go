package mirror

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
)

// The builders below check locally what the authority would check anyway, so
// a client never sends a packet that is bound to be dropped. Canvas edits are
// applied to the mirror right away since the authority does not echo them
// back to the drawer.

func (m *Mirror) Text(message string) (protocol.Text, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.synced {
		return protocol.Text{}, ErrNotSynchronized
	}
	if message == "" {
		return protocol.Text{}, fmt.Errorf("%w: empty message", ErrOutOfBounds)
	}
	return protocol.Text{Message: policy.TruncateText(message)}, nil
}

func (m *Mirror) Draw(commands ...protocol.Command) (protocol.Draw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkDrawing(); err != nil {
		return protocol.Draw{}, err
	}
	if len(commands) == 0 {
		return protocol.Draw{}, fmt.Errorf("%w: empty draw batch", ErrOutOfBounds)
	}
	if err := policy.CheckDrawBatch(len(commands)); err != nil {
		return protocol.Draw{}, err
	}
	for _, c := range commands {
		if len(c) != 4 && len(c) != 7 {
			return protocol.Draw{}, fmt.Errorf("%w: draw command of length %d", ErrOutOfBounds, len(c))
		}
	}
	commands = slices.Clone(commands)
	m.canvas = append(m.canvas, commands...)
	return protocol.Draw{Commands: commands}, nil
}

func (m *Mirror) ClearCanvas() (protocol.ClearCanvas, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkDrawing(); err != nil {
		return protocol.ClearCanvas{}, err
	}
	m.canvas = nil
	return protocol.ClearCanvas{}, nil
}

func (m *Mirror) Undo(index int) (protocol.Undo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkDrawing(); err != nil {
		return protocol.Undo{}, err
	}
	if index < 0 || index >= len(m.canvas) {
		return protocol.Undo{}, fmt.Errorf("%w: undo to %d of %d commands", ErrOutOfBounds, index, len(m.canvas))
	}
	m.undo(index)
	return protocol.Undo{Index: index}, nil
}

func (m *Mirror) SelectWord(index int) (protocol.SelectWord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.synced {
		return protocol.SelectWord{}, ErrNotSynchronized
	}
	ws, ok := m.state.(protocol.WordSelection)
	if !ok || ws.Drawer != m.me {
		return protocol.SelectWord{}, ErrNotDrawer
	}
	if index < 0 || index >= len(ws.Words) {
		return protocol.SelectWord{}, fmt.Errorf("%w: word %d of %d", ErrOutOfBounds, index, len(ws.Words))
	}
	return protocol.SelectWord{Index: index}, nil
}

func (m *Mirror) UpdateSettings(index, value int) (protocol.SettingsUpdate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOwner(); err != nil {
		return protocol.SettingsUpdate{}, err
	}
	if err := policy.CheckSetting(index, value); err != nil {
		return protocol.SettingsUpdate{}, err
	}
	return protocol.SettingsUpdate{Index: index, Value: value}, nil
}

func (m *Mirror) RequestGameStart(customWords []string) (protocol.RequestGameStart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOwner(); err != nil {
		return protocol.RequestGameStart{}, err
	}
	if err := policy.CanStart(len(m.players)); err != nil {
		return protocol.RequestGameStart{}, err
	}
	return protocol.RequestGameStart{CustomWords: strings.Join(customWords, ",")}, nil
}

func (m *Mirror) EndGame() (protocol.EndGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return protocol.EndGame{}, m.checkOwner()
}

func (m *Mirror) Kick(target int) (protocol.HostKick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOwner(); err != nil {
		return protocol.HostKick{}, err
	}
	if err := m.checkTarget(target); err != nil {
		return protocol.HostKick{}, err
	}
	return protocol.HostKick{Target: target}, nil
}

func (m *Mirror) Ban(target int) (protocol.HostBan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOwner(); err != nil {
		return protocol.HostBan{}, err
	}
	if err := m.checkTarget(target); err != nil {
		return protocol.HostBan{}, err
	}
	return protocol.HostBan{Target: target}, nil
}

func (m *Mirror) VoteKick(target int) (protocol.VoteKick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.synced {
		return protocol.VoteKick{}, ErrNotSynchronized
	}
	if err := m.checkTarget(target); err != nil {
		return protocol.VoteKick{}, err
	}
	return protocol.VoteKick{Target: target}, nil
}

func (m *Mirror) Report(target int, reasons int) (protocol.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.synced {
		return protocol.Report{}, ErrNotSynchronized
	}
	if err := m.checkTarget(target); err != nil {
		return protocol.Report{}, err
	}
	if reasons <= 0 || reasons > protocol.ReportInappropriateBehavior|protocol.ReportSpam|protocol.ReportCheating {
		return protocol.Report{}, fmt.Errorf("%w: report reasons %d", ErrOutOfBounds, reasons)
	}
	return protocol.Report{Target: target, Reasons: reasons}, nil
}

// Rate likes (true) or dislikes the current drawing.
func (m *Mirror) Rate(like bool) (protocol.Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.synced {
		return protocol.Vote{}, ErrNotSynchronized
	}
	d, ok := m.state.(protocol.Drawing)
	if !ok {
		return protocol.Vote{}, fmt.Errorf("%w: nothing is being drawn", ErrOutOfBounds)
	}
	if d.Drawer == m.me {
		return protocol.Vote{}, fmt.Errorf("%w: drawers cannot rate themselves", ErrOutOfBounds)
	}
	if like {
		return protocol.Vote{Value: 1}, nil
	}
	return protocol.Vote{Value: 0}, nil
}

func (m *Mirror) ChangeName(name string) (protocol.NameChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.synced {
		return protocol.NameChange{}, ErrNotSynchronized
	}
	name = policy.SanitizeName(name)
	if name == "" {
		return protocol.NameChange{}, fmt.Errorf("%w: empty name", ErrOutOfBounds)
	}
	return protocol.NameChange{Name: name}, nil
}

func (m *Mirror) checkDrawing() error {
	if !m.synced {
		return ErrNotSynchronized
	}
	d, ok := m.state.(protocol.Drawing)
	if !ok || d.Drawer != m.me {
		return ErrNotDrawer
	}
	return nil
}

func (m *Mirror) checkOwner() error {
	if !m.synced {
		return ErrNotSynchronized
	}
	if !m.isOwner() {
		return ErrNotOwner
	}
	return nil
}

func (m *Mirror) checkTarget(target int) error {
	if target == m.me || m.player(target) == nil {
		return fmt.Errorf("%w: no other participant %d", ErrOutOfBounds, target)
	}
	return nil
}
