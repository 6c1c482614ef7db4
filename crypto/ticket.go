package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ticket is what POST /play hands out and GET /socket redeems. An empty Room
// means matchmaking, Create asks for a fresh private room.
type Ticket struct {
	Room   string `json:"room,omitempty"`
	Create bool   `json:"create,omitempty"`
	Lang   int    `json:"lang"`
}

type ticketClaims struct {
	Ticket
	jwt.RegisteredClaims
}

type TicketManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewTicketManager(secretKey string, maxAge time.Duration) *TicketManager {
	return &TicketManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *TicketManager) Generate(t Ticket, now time.Time) (string, error) {
	claims := ticketClaims{
		Ticket: t,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedTicketGenerate, err)
	}

	return signedToken, nil
}

func (m *TicketManager) Verify(tokenString string) (Ticket, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ticketClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSigningAlg):
			return Ticket{}, ErrInvalidSigningAlg
		case errors.Is(err, jwt.ErrTokenExpired):
			return Ticket{}, ErrExpiredTicket
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return Ticket{}, ErrInvalidTicketSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Ticket{}, ErrCorruptedTicket
		default:
			return Ticket{}, fmt.Errorf("%w: %w", ErrUnexpectedTicketVerify, err)
		}
	}

	if claims, ok := token.Claims.(*ticketClaims); ok && token.Valid {
		return claims.Ticket, nil
	}

	return Ticket{}, ErrCorruptedTicket
}
