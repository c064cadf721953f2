package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hospadmin/hospital-admin/internal"
)

// TokenService issues and verifies the signed bearer tokens carried on
// every authenticated request. Verification is stateless; there is no
// revocation list, so invalidating outstanding tokens means rotating the
// shared secret.
type TokenService interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// Claims represents the JWT payload: the identity id plus the standard
// expiry claim.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTTokenService signs tokens with a single shared HMAC secret.
type JWTTokenService struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenService(secret string, ttl time.Duration) *JWTTokenService {
	return &JWTTokenService{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenService) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenService) Verify(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, internal.ErrTokenExpired
		}
		return 0, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, internal.ErrInvalidToken
	}
	return claims.UserID, nil
}

// Credential is the login row: the session bundle plus the stored hash.
type Credential struct {
	internal.SessionUser
	Password string
}

// UserRepository loads identities for authentication.
type UserRepository interface {
	// CredentialByUsername returns nil when no active identity matches.
	CredentialByUsername(username string) (*Credential, error)
	// CredentialByID returns nil when the identity is missing.
	CredentialByID(userID int64) (*Credential, error)
	// SessionUser returns nil when the identity is missing or disabled.
	SessionUser(userID int64) (*internal.SessionUser, error)
	UpdatePassword(userID int64, passwordHash string) error
}
