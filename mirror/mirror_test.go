package mirror

import (
	"testing"

	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/protocol"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func info(id int, name string, score int) protocol.PlayerInfo {
	return protocol.PlayerInfo{ID: id, Name: name, Avatar: [4]int{1, 2, 3, -1}, Score: score}
}

func snapshot(me int, roomType protocol.RoomType, owner int, state protocol.State, users ...protocol.PlayerInfo) protocol.LobbyData {
	return protocol.LobbyData{
		Settings: policy.DefaultSettings(0),
		RoomID:   "room-1",
		Type:     roomType,
		Me:       me,
		Owner:    owner,
		Users:    users,
		State:    protocol.StateUpdate{Time: 10, State: state},
	}
}

func synced(t *testing.T, snap protocol.LobbyData) *Mirror {
	t.Helper()
	m := New()
	require.NoError(t, m.Apply(snap))
	return m
}

func apply(t *testing.T, m *Mirror, packets ...protocol.Packet) {
	t.Helper()
	for _, p := range packets {
		require.NoError(t, m.Apply(p))
	}
}

func scores(m *Mirror) map[int]int {
	out := map[int]int{}
	for _, p := range m.Players() {
		out[p.ID] = p.Score
	}
	return out
}

func assertSnapshot(t *testing.T, want, got protocol.LobbyData) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		assert.Fail(t, "snapshot mismatch (-want +got):\n"+diff)
	}
}

func TestApplyBeforeSnapshot(t *testing.T) {
	m := New()
	err := m.Apply(protocol.PlayerJoin{Player: info(3, "carol", 0)})
	assert.ErrorIs(t, err, ErrNotSynchronized)
	assert.False(t, m.Synchronized())
	assert.Empty(t, m.Players())

	_, err = m.Text("hello")
	assert.ErrorIs(t, err, ErrNotSynchronized)
	_, err = m.Draw(protocol.Command{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrNotSynchronized)
}

func TestSnapshotIsReproduced(t *testing.T) {
	snap := snapshot(2, protocol.RoomPrivate, 1, protocol.Drawing{
		Drawer:  1,
		Lengths: []int{3, 5},
		Hints:   []protocol.Hint{{Pos: 0, Char: "i"}},
		Canvas:  []protocol.Command{{0, 1, 5, 3}},
	}, info(1, "alice", 120), info(2, "bob", 80))
	snap.Round = 1

	m := synced(t, snap)

	assert.True(t, m.Synchronized())
	assert.Equal(t, 2, m.Me())
	assert.Equal(t, "room-1", m.RoomID())
	assert.Equal(t, 1, m.Round())
	assertSnapshot(t, snap, m.Snapshot())
}

func TestSnapshotDuringRoundBeginKeepsScores(t *testing.T) {
	snap := snapshot(2, protocol.RoomPublic, protocol.NoOwner, protocol.RoundBegin{Round: 1},
		info(1, "alice", 120), info(2, "bob", 80))
	snap.Round = 1

	m := synced(t, snap)

	assert.Equal(t, map[int]int{1: 120, 2: 80}, scores(m))
	assertSnapshot(t, snap, m.Snapshot())
}

func TestRosterDeltas(t *testing.T) {
	m := synced(t, snapshot(1, protocol.RoomPrivate, 1, protocol.WaitingForPlayers{}, info(1, "alice", 0)))

	apply(t, m,
		protocol.PlayerJoin{Player: info(2, "bob", 0)},
		protocol.PlayerJoin{Player: info(3, "carol", 0)},
		protocol.VoteKickTally{Voter: 1, Target: 3, Votes: 1, Required: 2},
		protocol.NameChanged{PlayerID: 2, Name: "bobby"},
	)
	assert.Equal(t, 1, m.KickVotes(3))

	apply(t, m,
		protocol.PlayerLeave{PlayerID: 3, Reason: protocol.LeaveKicked},
		protocol.SetOwner{PlayerID: 2},
	)

	players := m.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "bobby", players[1].Name)
	assert.Zero(t, m.KickVotes(3))
	assert.False(t, m.IsOwner())
	assert.Equal(t, 2, m.Snapshot().Owner)
}

func TestSettingsDeltas(t *testing.T) {
	m := synced(t, snapshot(1, protocol.RoomPrivate, 1, protocol.WaitingRoom{}, info(1, "alice", 0)))

	apply(t, m,
		protocol.SettingsUpdate{Index: protocol.SettingRounds, Value: 5},
		protocol.SettingsUpdate{Index: 42, Value: 1},
		protocol.UpdateTime{Seconds: 7},
	)

	assert.Equal(t, 5, m.Settings()[protocol.SettingRounds])
	assert.Equal(t, 7, m.State().Time)
}

func TestScoreLifecycle(t *testing.T) {
	m := synced(t, snapshot(2, protocol.RoomPrivate, 1, protocol.WaitingForPlayers{},
		info(1, "alice", 0), info(2, "bob", 0), info(3, "carol", 0)))

	apply(t, m,
		protocol.StateUpdate{Time: 2, State: protocol.RoundBegin{Round: 0}},
		protocol.StateUpdate{Time: 15, State: protocol.WordSelection{Drawer: 1}},
		protocol.StateUpdate{Time: 80, State: protocol.Drawing{Drawer: 1, Lengths: []int{5}}},
		protocol.PlayerGuessed{PlayerID: 2, Word: "apple"},
		protocol.PlayerGuessed{PlayerID: 3},
	)
	word, ok := m.Word()
	assert.True(t, ok)
	assert.Equal(t, "apple", word)
	for _, p := range m.Players()[1:] {
		assert.True(t, p.Guessed)
	}

	apply(t, m, protocol.StateUpdate{Time: 3, State: protocol.TurnResults{
		Reason: protocol.TurnEveryoneGuessed,
		Word:   "apple",
		Scores: []protocol.ScoreDelta{
			{PlayerID: 1, Score: 150, Delta: 150},
			{PlayerID: 2, Score: 200, Delta: 200},
			{PlayerID: 3, Score: 100, Delta: 100},
		},
	}})
	assert.Equal(t, map[int]int{1: 150, 2: 200, 3: 100}, scores(m))
	for _, p := range m.Players() {
		assert.False(t, p.Guessed)
	}

	// same game, next round: scores stay
	apply(t, m, protocol.StateUpdate{Time: 2, State: protocol.RoundBegin{Round: 1}})
	assert.Equal(t, 1, m.Round())
	assert.Equal(t, 200, scores(m)[2])

	ids := []int{}
	for _, p := range m.Leaderboard() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{2, 1, 3}, ids)

	apply(t, m, protocol.StateUpdate{Time: 5, State: protocol.GameResults{Ranking: []protocol.Rank{{PlayerID: 2, Place: 1}}}})
	assert.Equal(t, 200, scores(m)[2])

	apply(t, m, protocol.StateUpdate{State: protocol.WaitingRoom{}})
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0}, scores(m))
	assert.Zero(t, m.Round())
}

func TestNewGameResetsScores(t *testing.T) {
	m := synced(t, snapshot(2, protocol.RoomPublic, protocol.NoOwner, protocol.GameResults{},
		info(1, "alice", 300), info(2, "bob", 250)))

	apply(t, m, protocol.StateUpdate{Time: 2, State: protocol.RoundBegin{Round: 0}})

	assert.Equal(t, map[int]int{1: 0, 2: 0}, scores(m))
}

func TestCanvasDeltas(t *testing.T) {
	line := protocol.Command{0, 1, 6, 10, 10, 20, 20}
	fill := protocol.Command{1, 3, 50, 50}
	m := synced(t, snapshot(2, protocol.RoomPublic, protocol.NoOwner, protocol.Drawing{Drawer: 1, Lengths: []int{5}},
		info(1, "alice", 0), info(2, "bob", 0)))

	apply(t, m, protocol.Draw{Commands: []protocol.Command{line, fill, line}})
	assert.Len(t, m.Canvas(), 3)

	apply(t, m, protocol.Undo{Index: 1})
	assert.Equal(t, []protocol.Command{line}, m.Canvas())

	apply(t, m, protocol.Undo{Index: 7})
	assert.Len(t, m.Canvas(), 1, "out of range undo is ignored")

	apply(t, m, protocol.Draw{Commands: []protocol.Command{fill}}, protocol.ClearCanvas{})
	assert.Empty(t, m.Canvas())

	apply(t, m, protocol.Draw{Commands: []protocol.Command{fill}})
	apply(t, m, protocol.StateUpdate{Time: 3, State: protocol.TurnResults{Word: "apple"}})
	assert.Empty(t, m.Canvas())
	word, ok := m.Word()
	assert.True(t, ok)
	assert.Equal(t, "apple", word)
}

func TestSnapshotFoldsLiveTurn(t *testing.T) {
	line := protocol.Command{0, 1, 6, 10, 10, 20, 20}
	m := synced(t, snapshot(2, protocol.RoomPublic, protocol.NoOwner, protocol.Drawing{Drawer: 1, Lengths: []int{5}},
		info(1, "alice", 0), info(2, "bob", 0)))

	apply(t, m,
		protocol.Draw{Commands: []protocol.Command{line}},
		protocol.RevealHint{Hints: []protocol.Hint{{Pos: 2, Char: "p"}}},
		protocol.PlayerGuessed{PlayerID: 2, Word: "apple"},
	)

	got := m.Snapshot().State.State
	assert.Equal(t, protocol.Drawing{
		Drawer:  1,
		Word:    "apple",
		Lengths: []int{5},
		Hints:   []protocol.Hint{{Pos: 2, Char: "p"}},
		Canvas:  []protocol.Command{line},
	}, got)
}

func TestEventPacketsLeaveStateAlone(t *testing.T) {
	snap := snapshot(1, protocol.RoomPublic, protocol.NoOwner, protocol.WaitingForPlayers{}, info(1, "alice", 0))
	m := synced(t, snap)

	apply(t, m,
		protocol.ChatMessage{PlayerID: 1, Message: "hi"},
		protocol.CloseWord{Guess: "appel"},
		protocol.VoteCast{PlayerID: 1, Vote: 1},
		protocol.SpamDetected{},
		protocol.GameStartError{Code: protocol.GameStartNotEnoughPlayers},
	)

	assertSnapshot(t, snap, m.Snapshot())
}
