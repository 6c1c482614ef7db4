package relay

import "github.com/Skribblers/skribbler/protocol"

type Direction int

const (
	// ToUpstream carries participant packets towards the authority.
	ToUpstream Direction = iota
	// ToDownstream carries authority packets towards the participant.
	ToDownstream
)

func (d Direction) String() string {
	if d == ToUpstream {
		return "upstream"
	}
	return "downstream"
}

type Verdict int

const (
	Forward Verdict = iota
	Drop
)

// Message is one frame in flight. Handlers may rewrite Data or use
// SetEnvelope/SetPacket; whatever Data holds when the handler returns is
// what gets forwarded.
type Message struct {
	Direction Direction
	Data      []byte

	env     *protocol.Envelope
	envData []byte
}

// Envelope decodes Data on first use.
func (m *Message) Envelope() (protocol.Envelope, error) {
	if m.env != nil && sameBytes(m.envData, m.Data) {
		return *m.env, nil
	}
	env, err := protocol.Unmarshal(m.Data)
	if err != nil {
		return protocol.Envelope{}, err
	}
	m.env, m.envData = &env, m.Data
	return env, nil
}

func (m *Message) SetEnvelope(env protocol.Envelope) {
	m.Data = protocol.Marshal(env)
	m.env, m.envData = &env, m.Data
}

// Packet decodes the frame with the catalog of its direction.
func (m *Message) Packet() (protocol.Packet, error) {
	env, err := m.Envelope()
	if err != nil {
		return nil, err
	}
	if m.Direction == ToUpstream {
		return protocol.DecodeClient(env)
	}
	return protocol.DecodeServer(env)
}

func (m *Message) SetPacket(p protocol.Packet) error {
	env, err := protocol.Encode(p)
	if err != nil {
		return err
	}
	m.SetEnvelope(env)
	return nil
}

func sameBytes(a, b []byte) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
