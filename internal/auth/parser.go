package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"noise-sentinel/internal/model"
)

type Claims struct {
	UserID    uuid.UUID  `json:"sub"`
	Role      string     `json:"role"`
	StationID *uuid.UUID `json:"station_id,omitempty"`
	CourtID   *uuid.UUID `json:"court_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal resolves the role claim against the closed role set.
func (c *Claims) Principal() (model.Principal, error) {
	role, err := model.ParseRole(c.Role)
	if err != nil {
		return model.Principal{}, err
	}
	if c.UserID == uuid.Nil {
		return model.Principal{}, fmt.Errorf("token has no subject")
	}
	return model.Principal{
		UserID:    c.UserID,
		Role:      role,
		StationID: c.StationID,
		CourtID:   c.CourtID,
	}, nil
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
