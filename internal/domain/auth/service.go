package auth

import (
	"context"
	"time"
)

type Service struct {
	Store    *Store
	Secret   string
	TokenTTL time.Duration
}

func NewService(store *Store, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl}
}

// Login verifies the credentials and returns a signed session token with
// the acting user's identity. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, UserContext, error) {
	user, err := s.Store.FindUserByEmail(ctx, email)
	if err != nil {
		return "", UserContext{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", UserContext{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:     user.ID,
		Email:      user.Email,
		EmployeeID: user.EmployeeID,
	}, s.TokenTTL)
	if err != nil {
		return "", UserContext{}, err
	}
	return token, UserContext{UserID: user.ID, Email: user.Email, EmployeeID: user.EmployeeID}, nil
}
