package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 签名错误 / 过期 / 格式错误统一返回该错误，不区分原因
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity { return Identity{ID: c.ID, Email: c.Email, Role: c.Role} }

// Identity 令牌载荷
type Identity struct {
	ID    string
	Email string
	Role  string
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    id.ID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, ErrInvalidToken
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.ID != "" {
		return c, nil
	}
	return nil, ErrInvalidToken
}

// Pair access token 放 body / header，refresh token 只走 HttpOnly cookie
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Tokens 双密钥：access 与 refresh 使用不同 secret，互相不能通过校验
type Tokens struct {
	Access  *JWTer
	Refresh *JWTer
}

func NewTokens(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		Access:  &JWTer{Secret: []byte(accessSecret), Issuer: issuer, TTL: accessTTL},
		Refresh: &JWTer{Secret: []byte(refreshSecret), Issuer: issuer, TTL: refreshTTL},
	}
}

func (t *Tokens) Issue(id Identity) (Pair, error) {
	at, err := t.Access.Issue(id)
	if err != nil {
		return Pair{}, fmt.Errorf("issue access token: %w", err)
	}
	rt, err := t.Refresh.Issue(id)
	if err != nil {
		return Pair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return Pair{AccessToken: at, RefreshToken: rt}, nil
}

func (t *Tokens) VerifyAccess(token string) (*Claims, error)  { return t.Access.Parse(token) }
func (t *Tokens) VerifyRefresh(token string) (*Claims, error) { return t.Refresh.Parse(token) }

// RefreshTTL cookie max-age 使用
func (t *Tokens) RefreshTTL() time.Duration { return t.Refresh.TTL }
