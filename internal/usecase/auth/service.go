package auth

import (
	"context"
	"strings"

	dommerchant "github.com/trinibuild/storefront/internal/domain/merchant"
)

type PasswordComparer interface {
	Compare(hash string, password string) error
}

// Claims is the authenticated merchant identity carried in the token.
// StoreID scopes every back office operation to the merchant's own store.
type Claims struct {
	MerchantID string
	StoreID    string
	Email      string
	Name       string
}

type TokenService interface {
	GenerateToken(m *dommerchant.Merchant) (string, error)
	ParseToken(token string) (*Claims, error)
}

type Service struct {
	merchants dommerchant.Repository
	checker   PasswordComparer
	tokens    TokenService
}

func NewService(
	merchants dommerchant.Repository,
	checker PasswordComparer,
	tokens TokenService,
) *Service {
	return &Service{
		merchants: merchants,
		checker:   checker,
		tokens:    tokens,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token    string
	Merchant *dommerchant.Merchant
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, dommerchant.ErrInvalidCredential
	}

	m, err := s.merchants.GetByEmail(ctx, email)
	if err != nil {
		return nil, dommerchant.ErrUnauthorized
	}

	if err := s.checker.Compare(m.PasswordHash, in.Password); err != nil {
		return nil, dommerchant.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(m)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		Merchant: m,
	}, nil
}
