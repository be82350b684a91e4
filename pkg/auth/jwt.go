package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/model"
)

// ErrInvalidToken covers every verification failure: missing, malformed,
// expired and bad-signature tokens all collapse to this one error so the
// caller cannot distinguish them.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies the signed capability tokens that
// carry identity and role between requests. Tokens are self-contained;
// there is no server-side revocation list.
type TokenService interface {
	Issue(userID uuid.UUID, email string, role model.Role) (string, error)
	Verify(token string) (*model.Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (s *jwtService) Issue(userID uuid.UUID, email string, role model.Role) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID.String(),
		Email:  email,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) Verify(tokenStr string) (*model.Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.Claims{
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
