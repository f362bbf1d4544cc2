package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/bpohub/workforce/internal"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	credentials   map[string]*Credential
	usersByID     map[int64]*internal.SessionUser
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)
	hash := string(hashedPassword)

	return &mockUserRepository{
		credentials: map[string]*Credential{
			"agent@bpohub.io": {UserID: 1, Email: "agent@bpohub.io", PasswordHash: hash, IsActive: true},
			"admin@bpohub.io": {UserID: 2, Email: "admin@bpohub.io", PasswordHash: hash, IsActive: true},
			"gone@bpohub.io":  {UserID: 3, Email: "gone@bpohub.io", PasswordHash: hash, IsActive: false},
		},
		usersByID: map[int64]*internal.SessionUser{
			1: {ID: 1, EmployeeNo: "EMP-0001", Email: "agent@bpohub.io", FullName: "Ana Reyes", RoleID: 9, RoleName: "agent", IsActive: true},
			2: {ID: 2, EmployeeNo: "EMP-0002", Email: "admin@bpohub.io", FullName: "Site Admin", RoleID: 1, RoleName: "admin", IsActive: true},
			3: {ID: 3, EmployeeNo: "EMP-0003", Email: "gone@bpohub.io", FullName: "Former Agent", RoleID: 9, RoleName: "agent", IsActive: false},
		},
	}
}

func (m *mockUserRepository) GetCredentialByEmail(email string) (*Credential, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.credentials[email], nil
}

func (m *mockUserRepository) GetSessionUser(userID int64) (*internal.SessionUser, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.usersByID[userID], nil
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

func testSecurityConfig() internal.SecurityConfig {
	return internal.SecurityConfig{
		AccessTokenSecret:    "test-access-secret-at-least-32-chars!!",
		RefreshTokenSecret:   "test-refresh-secret-at-least-32-char!!",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		BCryptCost:           bcrypt.DefaultCost,
	}
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(testSecurityConfig())
		service = NewService(mockRepo, tokenGen, bcrypt.DefaultCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "agent@bpohub.io",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should generate valid JWT tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "admin@bpohub.io",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("2"))
				gomega.Expect(claims.Email).To(gomega.Equal("admin@bpohub.io"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return error for unknown email", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "nobody@bpohub.io",
					Password: "any_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return error for wrong password", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "agent@bpohub.io",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should report inactive users", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "gone@bpohub.io",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrUserInactive))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty email", func() {
				_, err := service.Authenticate(LoginDTO{Password: "password"})
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should return validation error for empty password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "agent@bpohub.io"})
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should return invalid credentials error", func() {
				mockRepo.setError(errors.New("database error"))

				_, err := service.Authenticate(LoginDTO{
					Email:    "agent@bpohub.io",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		var validRefreshToken string

		ginkgo.BeforeEach(func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "agent@bpohub.io",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			validRefreshToken = tokens.RefreshToken
		})

		ginkgo.Context("when refresh token is valid", func() {
			ginkgo.It("should return a fresh token pair", func() {
				newTokens, err := service.RefreshTokens(validRefreshToken)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(newTokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(newTokens.RefreshToken).ToNot(gomega.BeEmpty())
			})

			ginkgo.It("should preserve user information in new tokens", func() {
				newTokens, err := service.RefreshTokens(validRefreshToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(newTokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("1"))
				gomega.Expect(claims.Email).To(gomega.Equal("agent@bpohub.io"))
			})
		})

		ginkgo.Context("when refresh token is invalid", func() {
			ginkgo.It("should return error for malformed token", func() {
				tokens, err := service.RefreshTokens("invalid.token.format")
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should reject an access token used as a refresh token", func() {
				accessToken, err := tokenGen.GenerateAccessToken("1", "agent@bpohub.io")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				_, err = service.RefreshTokens(accessToken)
				gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
			})

			ginkgo.It("should return error for expired token", func() {
				cfg := testSecurityConfig()
				cfg.AccessTokenDuration = -1 * time.Hour
				cfg.RefreshTokenDuration = -1 * time.Hour
				expiredGen := NewJWTTokenGenerator(cfg)
				expiredToken, err := expiredGen.GenerateRefreshToken("1", "agent@bpohub.io")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				_, err = service.RefreshTokens(expiredToken)
				gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
			})
		})

		ginkgo.Context("when the user was deactivated after issuance", func() {
			ginkgo.It("should refuse rotation", func() {
				mockRepo.usersByID[1].IsActive = false

				_, err := service.RefreshTokens(validRefreshToken)
				gomega.Expect(err).To(gomega.Equal(ErrUserInactive))
			})
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should return claims for a valid token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "admin@bpohub.io",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("2"))
			gomega.Expect(claims.ExpiresAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("should return error for malformed token", func() {
			claims, err := service.ValidateAccessToken("invalid.token")
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(claims).To(gomega.BeNil())
		})

		ginkgo.It("should return ErrTokenExpired for expired token", func() {
			cfg := testSecurityConfig()
			cfg.AccessTokenDuration = -1 * time.Hour
			expiredGen := NewJWTTokenGenerator(cfg)
			expiredToken, err := expiredGen.GenerateAccessToken("1", "agent@bpohub.io")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(expiredToken)
			gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
			gomega.Expect(claims).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("GetSessionUser", func() {
		ginkgo.It("should return the session profile", func() {
			user, err := service.GetSessionUser(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user).ToNot(gomega.BeNil())
			gomega.Expect(user.EmployeeNo).To(gomega.Equal("EMP-0001"))
			gomega.Expect(user.RoleName).To(gomega.Equal("agent"))
		})

		ginkgo.It("should return nil for an unknown user", func() {
			user, err := service.GetSessionUser(999)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("HashPassword", func() {
		ginkgo.It("should return a verifiable hash", func() {
			hash, err := service.HashPassword("test_password_123")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(hash).ToNot(gomega.BeEmpty())
			gomega.Expect(VerifyPassword(hash, "test_password_123")).To(gomega.Succeed())
		})

		ginkgo.It("should generate different hashes for same password", func() {
			hash1, err1 := service.HashPassword("same_password")
			hash2, err2 := service.HashPassword("same_password")
			gomega.Expect(err1).ToNot(gomega.HaveOccurred())
			gomega.Expect(err2).ToNot(gomega.HaveOccurred())
			gomega.Expect(hash1).ToNot(gomega.Equal(hash2))
		})
	})
})

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokenGen *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator(testSecurityConfig())
	})

	ginkgo.It("should round-trip access tokens", func() {
		token, err := tokenGen.GenerateAccessToken("123", "roundtrip@bpohub.io")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := tokenGen.ValidateAccessToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal("123"))
		gomega.Expect(claims.Email).To(gomega.Equal("roundtrip@bpohub.io"))
		gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally("~", time.Now().Add(15*time.Minute), time.Minute))
	})

	ginkgo.It("should round-trip refresh tokens", func() {
		token, err := tokenGen.GenerateRefreshToken("456", "refresh@bpohub.io")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := tokenGen.ValidateRefreshToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal("456"))
	})

	ginkgo.It("should keep the two secrets separate", func() {
		refreshToken, err := tokenGen.GenerateRefreshToken("1", "cross@bpohub.io")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokenGen.ValidateAccessToken(refreshToken)
		gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
	})
})

var _ = ginkgo.Describe("LoginDTO", func() {
	ginkgo.It("should accept a complete payload", func() {
		gomega.Expect(LoginDTO{Email: "a@b.c", Password: "pw"}.Validate()).To(gomega.Succeed())
	})

	ginkgo.It("should reject a missing email", func() {
		err := LoginDTO{Password: "pw"}.Validate()
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.Equal("email is required"))
	})

	ginkgo.It("should reject a missing password", func() {
		err := LoginDTO{Email: "a@b.c"}.Validate()
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.Equal("password is required"))
	})
})

var _ = ginkgo.Describe("RefreshTokenDTO", func() {
	ginkgo.It("should reject an empty token", func() {
		err := RefreshTokenDTO{}.Validate()
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.Equal("refresh_token is required"))
	})
})
