package protocol

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldID   protowire.Number = 1
	fieldData protowire.Number = 2
)

// Envelope is one message on the stream. Data holds the JSON payload and is
// empty for packets that carry none.
type Envelope struct {
	ID   PacketID
	Data json.RawMessage
}

func Marshal(env Envelope) []byte {
	b := make([]byte, 0, len(env.Data)+8)
	b = protowire.AppendTag(b, fieldID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(env.ID))
	if len(env.Data) > 0 {
		b = protowire.AppendTag(b, fieldData, protowire.BytesType)
		b = protowire.AppendBytes(b, env.Data)
	}
	return b
}

func Unmarshal(frame []byte) (Envelope, error) {
	env := Envelope{}
	seenID := false

	for len(frame) > 0 {
		num, typ, n := protowire.ConsumeTag(frame)
		if n < 0 {
			return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedPacket, protowire.ParseError(n))
		}
		frame = frame[n:]

		switch {
		case num == fieldID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(frame)
			if n < 0 {
				return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedPacket, protowire.ParseError(n))
			}
			env.ID = PacketID(v)
			seenID = true
			frame = frame[n:]
		case num == fieldData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(frame)
			if n < 0 {
				return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedPacket, protowire.ParseError(n))
			}
			env.Data = append(json.RawMessage(nil), v...)
			frame = frame[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, frame)
			if n < 0 {
				return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedPacket, protowire.ParseError(n))
			}
			frame = frame[n:]
		}
	}

	if !seenID {
		return Envelope{}, fmt.Errorf("%w: missing packet id", ErrMalformedPacket)
	}
	return env, nil
}

func Encode(p Packet) (Envelope, error) {
	env := Envelope{ID: p.ID()}
	payload := p.payload()
	if payload == nil {
		return env, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s: %w", p.ID(), err)
	}
	env.Data = data
	return env, nil
}

// EncodeFrame encodes p straight to its wire frame.
func EncodeFrame(p Packet) ([]byte, error) {
	env, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return Marshal(env), nil
}
