package auth

import (
	"strconv"

	"github.com/bpohub/workforce/internal"
)

// Credential is the minimal row needed to verify a login.
type Credential struct {
	UserID       int64
	Email        string
	PasswordHash string
	IsActive     bool
}

type UserRepository interface {
	GetCredentialByEmail(email string) (*Credential, error)
	GetSessionUser(userID int64) (*internal.SessionUser, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo   UserRepository
	tokens     *JWTTokenGenerator
	bcryptCost int
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokens *JWTTokenGenerator, bcryptCost int) *Service {
	return &Service{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	cred, err := s.userRepo.GetCredentialByEmail(dto.Email)
	if err != nil || cred == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !cred.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	if err := VerifyPassword(cred.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(strconv.FormatInt(cred.UserID, 10), cred.Email)
}

// RefreshTokens validates a refresh token and rotates the pair
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// Refuse rotated tokens for users deactivated since issuance.
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}
	user, err := s.userRepo.GetSessionUser(userID)
	if err != nil || user == nil {
		return AuthTokens{}, ErrInvalidToken
	}
	if !user.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	return s.issueTokens(claims.UserID, claims.Email)
}

func (s *Service) issueTokens(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// GetSessionUser loads the session profile placed into the request context.
func (s *Service) GetSessionUser(userID int64) (*internal.SessionUser, error) {
	return s.userRepo.GetSessionUser(userID)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}
