package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type decoder func(data json.RawMessage) (Packet, error)

var clientDecoders = map[PacketID]decoder{
	PacketLogin:            decodeStruct[Login],
	PacketHostKick:         decodeStruct[HostKick],
	PacketHostBan:          decodeStruct[HostBan],
	PacketVoteKick:         decodeStruct[VoteKick],
	PacketReport:           decodeStruct[Report],
	PacketVote:             decodeStruct[Vote],
	PacketUpdateSettings:   decodeStruct[SettingsUpdate],
	PacketSelectWord:       decodeStruct[SelectWord],
	PacketDraw:             decodeStruct[Draw],
	PacketClearCanvas:      decodeEmpty[ClearCanvas],
	PacketUndo:             decodeStruct[Undo],
	PacketRequestGameStart: decodeOptional[RequestGameStart],
	PacketEndGame:          decodeEmpty[EndGame],
	PacketText:             decodeStruct[Text],
	PacketUpdateName:       decodeStruct[NameChange],
}

var serverDecoders = map[PacketID]decoder{
	PacketPlayerJoin:     decodeStruct[PlayerJoin],
	PacketPlayerLeave:    decodeStruct[PlayerLeave],
	PacketVoteKick:       decodeStruct[VoteKickTally],
	PacketVote:           decodeStruct[VoteCast],
	PacketLobbyData:      decodeStruct[LobbyData],
	PacketUpdateGameData: decodeStruct[StateUpdate],
	PacketUpdateSettings: decodeStruct[SettingsUpdate],
	PacketRevealHint:     decodeStruct[RevealHint],
	PacketUpdateTime:     decodeStruct[UpdateTime],
	PacketPlayerGuessed:  decodeStruct[PlayerGuessed],
	PacketCloseWord:      decodeStruct[CloseWord],
	PacketSetOwner:       decodeStruct[SetOwner],
	PacketDraw:           decodeStruct[Draw],
	PacketClearCanvas:    decodeEmpty[ClearCanvas],
	PacketUndo:           decodeStruct[Undo],
	PacketText:           decodeStruct[ChatMessage],
	PacketGameStartError: decodeStruct[GameStartError],
	PacketSpamDetected:   decodeEmpty[SpamDetected],
	PacketUpdateName:     decodeStruct[NameChanged],
}

// DecodeClient turns an envelope sent by a participant into its typed packet.
// Any mismatch between id and payload shape yields an error wrapping ErrMalformedPacket.
func DecodeClient(env Envelope) (Packet, error) {
	return decodeWith(clientDecoders, env)
}

// DecodeServer is DecodeClient for envelopes sent by the authority.
func DecodeServer(env Envelope) (Packet, error) {
	return decodeWith(serverDecoders, env)
}

func decodeWith(decoders map[PacketID]decoder, env Envelope) (Packet, error) {
	decode, ok := decoders[env.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %d", ErrMalformedPacket, ErrUnknownPacket, env.ID)
	}
	p, err := decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPacket, env.ID, err)
	}
	return p, nil
}

func decodeStruct[T Packet](data json.RawMessage) (Packet, error) {
	var p T
	if len(data) == 0 {
		return nil, fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeOptional[T Packet](data json.RawMessage) (Packet, error) {
	if len(data) == 0 {
		var p T
		return p, nil
	}
	return decodeStruct[T](data)
}

func decodeEmpty[T Packet](json.RawMessage) (Packet, error) {
	var p T
	return p, nil
}
