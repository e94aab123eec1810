package serverutils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Room tokens tie a websocket join to a previously created session. They are
// identity, not transport security: the link between "create session" and
// "join room" so arbitrary clients cannot squat on a session id.

const roomTokenTTL = 2 * time.Hour

type RoomClaims struct {
	SessionID     string
	CandidateName string
}

func SignRoomToken(secret, sessionID, candidateName string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id":     sessionID,
		"candidate_name": candidateName,
		"exp":            time.Now().Add(roomTokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign room token: %w", err)
	}
	return signed, nil
}

func ParseRoomToken(secret, tokenStr string) (*RoomClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid room token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid room token claims")
	}

	sessionID, _ := claims["session_id"].(string)
	name, _ := claims["candidate_name"].(string)
	if sessionID == "" {
		return nil, fmt.Errorf("room token missing session id")
	}

	return &RoomClaims{SessionID: sessionID, CandidateName: name}, nil
}
