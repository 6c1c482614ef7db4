package game

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Skribblers/skribbler/crypto"
	"github.com/stretchr/testify/mock"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(reason string) {
	m.Called(reason)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- Player ---

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockPlayer) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPlayer) SetRoom(r Room) {
	m.Called(r)
}

func (m *MockPlayer) CancelAndRelease(reason string) {
	m.Called(reason)
}

func (m *MockPlayer) Name() string {
	return m.Called().String(0)
}

func (m *MockPlayer) Avatar() [4]int {
	return m.Called().Get(0).([4]int)
}

func (m *MockPlayer) RemoteAddr() string {
	return m.Called().String(0)
}

// fakePlayer records what the room does to it, for scenario tests where
// setting up an expectation per packet would drown the assertions.
type fakePlayer struct {
	name     string
	addr     string
	room     Room
	sent     [][]byte
	reason   string
	released bool
	sendErr  error
}

func newFakePlayer(name string) *fakePlayer {
	return &fakePlayer{name: name, addr: "10.0.0." + name}
}

func (p *fakePlayer) Send(data []byte) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, data)
	return nil
}

func (p *fakePlayer) Ping() error        { return nil }
func (p *fakePlayer) SetRoom(r Room)     { p.room = r }
func (p *fakePlayer) Name() string       { return p.name }
func (p *fakePlayer) Avatar() [4]int     { return [4]int{1, 2, 3, -1} }
func (p *fakePlayer) RemoteAddr() string { return p.addr }

func (p *fakePlayer) CancelAndRelease(reason string) {
	if !p.released {
		p.reason = reason
	}
	p.released = true
}

// --- Room ---

type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) Send(ctx context.Context, e ClientPacketEnvelope) {
	m.Called(ctx, e)
}

func (m *MockRoom) RemoveMe(p Player) {
	m.Called(p)
}

func (m *MockRoom) RequestJoin(jreq roomJoinRequest) {
	m.Called(jreq)
}

func (m *MockRoom) Tick(now time.Time) {
	m.Called(now)
}

func (m *MockRoom) PingPlayers() {
	m.Called()
}

func (m *MockRoom) GameLoop() {
	m.Called()
}

func (m *MockRoom) CloseAndRelease() {
	m.Called()
}

func (m *MockRoom) Description() roomDescription {
	return m.Called().Get(0).(roomDescription)
}

func (m *MockRoom) SetParentLobby(l Lobby) {
	m.Called(l)
}

func (m *MockRoom) SetId(id string) {
	m.Called(id)
}

// --- Lobby ---

type MockLobby struct {
	mock.Mock
}

func (m *MockLobby) RequestUpdateDescription(desc roomDescription) {
	m.Called(desc)
}

func (m *MockLobby) RemoveRoom(roomId string) {
	m.Called(roomId)
}

func (m *MockLobby) Rematch(roomId string, jreq roomJoinRequest) {
	m.Called(roomId, jreq)
}

// --- RoomDirectory ---

type MockRoomDirectory struct {
	mock.Mock
}

func (m *MockRoomDirectory) RequestJoin(ctx context.Context, jreq roomJoinRequest) error {
	args := m.Called(ctx, jreq)
	return args.Error(0)
}

func (m *MockRoomDirectory) GetPublicGames(ctx context.Context) []roomDescription {
	args := m.Called(ctx)
	return args.Get(0).([]roomDescription)
}

func (m *MockRoomDirectory) LookupRoom(ctx context.Context, roomId string) (roomDescription, bool) {
	args := m.Called(ctx, roomId)
	return args.Get(0).(roomDescription), args.Bool(1)
}

// --- RandomWordsGenerator ---

type MockRandomWordsGenerator struct {
	mock.Mock
}

func (m *MockRandomWordsGenerator) Generate(lang, count int) []string {
	args := m.Called(lang, count)
	return slices.Clone(args.Get(0).([]string))
}

type staticWords []string

func (s staticWords) Generate(lang, count int) []string {
	return slices.Clone(s[:min(count, len(s))])
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUniqueIdGenerator) Dispose(id string) {
	m.Called(id)
}

// sequentialIds hands out room-1, room-2, ... and remembers disposals.
type sequentialIds struct {
	mu       sync.Mutex
	next     int
	disposed []string
}

func (s *sequentialIds) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return "room-" + string(rune('0'+s.next))
}

func (s *sequentialIds) Dispose(id string) {
	s.mu.Lock()
	s.disposed = append(s.disposed, id)
	s.mu.Unlock()
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(duration time.Duration) <-chan time.Time {
	args := m.Called(duration)
	return args.Get(0).(chan time.Time)
}

// --- TicketIssuer ---

type MockTicketIssuer struct {
	mock.Mock
}

func (m *MockTicketIssuer) Generate(t crypto.Ticket, now time.Time) (string, error) {
	args := m.Called(t, now)
	return args.String(0), args.Error(1)
}

func (m *MockTicketIssuer) Verify(token string) (crypto.Ticket, error) {
	args := m.Called(token)
	return args.Get(0).(crypto.Ticket), args.Error(1)
}
