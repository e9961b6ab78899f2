package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/concept-studio/utils"
	"github.com/golang-jwt/jwt/v5"
)

// Anonymous key error constants
var (
	ErrAnonKeyExpired = errors.New("anon key has expired")
	ErrAnonKeyInvalid = errors.New("invalid anon key")
)

// AnonRole is the only role accepted on the store-backed API
const AnonRole = "anon"

const anonKeyIssuer = "concept-studio"

// AnonKeyClaims are the claims carried by an anonymous access key
type AnonKeyClaims struct {
	Role      string
	IssuedAt  time.Time
	ExpiresAt *time.Time
}

// AnonKeyService issues and verifies HS256 anonymous access keys signed with STORE_ANON_KEY
type AnonKeyService interface {
	IssueAnonKey(ttl time.Duration) (string, error)
	ValidateAnonKey(token string) (*AnonKeyClaims, error)
}

// AnonKeyServiceImpl implements AnonKeyService
type AnonKeyServiceImpl struct {
	secretKey []byte
}

// NewAnonKeyService creates the service from the shared store credential
func NewAnonKeyService(secret string) (AnonKeyService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("anon key secret must be at least 32 characters long")
	}
	return &AnonKeyServiceImpl{secretKey: []byte(secret)}, nil
}

// IssueAnonKey signs a key with role=anon. A zero ttl issues a non-expiring key.
func (s *AnonKeyServiceImpl) IssueAnonKey(ttl time.Duration) (string, error) {
	now := utils.UTCNow()
	claims := jwt.MapClaims{
		"role": AnonRole,
		"iss":  anonKeyIssuer,
		"iat":  now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign anon key: %w", err)
	}
	return signed, nil
}

// ValidateAnonKey verifies signature, expiry and the anon role claim
func (s *AnonKeyServiceImpl) ValidateAnonKey(token string) (*AnonKeyClaims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(anonKeyIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAnonKeyExpired
		}
		return nil, ErrAnonKeyInvalid
	}

	if !parsedToken.Valid {
		return nil, ErrAnonKeyInvalid
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrAnonKeyInvalid
	}

	role, ok := claims["role"].(string)
	if !ok || role != AnonRole {
		return nil, ErrAnonKeyInvalid
	}

	issuedAt, ok := claims["iat"].(float64)
	if !ok {
		return nil, ErrAnonKeyInvalid
	}

	result := &AnonKeyClaims{
		Role:     role,
		IssuedAt: time.Unix(int64(issuedAt), 0).UTC(),
	}
	if exp, ok := claims["exp"].(float64); ok {
		t := time.Unix(int64(exp), 0).UTC()
		result.ExpiresAt = &t
	}

	return result, nil
}
