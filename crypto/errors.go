package crypto

import "errors"

var (
	ErrInvalidSigningAlg        = errors.New("invalid-signing-alg")
	ErrExpiredTicket            = errors.New("expired-ticket")
	ErrInvalidTicketSignature   = errors.New("invalid-ticket-signature")
	ErrCorruptedTicket          = errors.New("corrupted-ticket")
	ErrUnexpectedTicketGenerate = errors.New("unexpected-ticket-generation-error")
	ErrUnexpectedTicketVerify   = errors.New("unexpected-ticket-verification-error")
)
