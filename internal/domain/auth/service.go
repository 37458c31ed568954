package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	cryptoutil "hrconsole/internal/platform/crypto"
)

const TokenTTL = 8 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFANotSetUp        = errors.New("mfa setup required")
	ErrMFAUnavailable     = errors.New("mfa requires encryption key")
)

type StoreAPI interface {
	FindActiveUserByEmail(ctx context.Context, email string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error
	GetMFASecret(ctx context.Context, userID string) ([]byte, error)
	SetMFAEnabled(ctx context.Context, userID string, enabled bool) error
}

type Service struct {
	Store  StoreAPI
	Secret string
	Crypto *cryptoutil.Service
	Issuer string
	Logger *zap.Logger
}

func NewService(store StoreAPI, secret string, crypto *cryptoutil.Service, logger *zap.Logger) *Service {
	return &Service{Store: store, Secret: secret, Crypto: crypto, Issuer: "Skills Console", Logger: logger.Named("auth")}
}

type Session struct {
	Token string      `json:"token"`
	User  UserContext `json:"user"`
}

// Login checks the password and, for MFA-enabled accounts, the TOTP code,
// then issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password, code string) (Session, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if user.MFAEnabled {
		if code == "" {
			return Session{}, ErrMFARequired
		}
		secret, err := s.decryptSecret(user.MFASecretEn)
		if err != nil || secret == "" || !totp.Validate(code, secret) {
			return Session{}, ErrMFAInvalid
		}
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, TokenTTL)
	if err != nil {
		return Session{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		s.Logger.Warn("update last_login failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return Session{Token: token, User: UserContext{UserID: user.ID, Email: user.Email, Role: user.Role}}, nil
}

type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

func (s *Service) SetupMFA(ctx context.Context, user UserContext) (MFASetup, error) {
	if s.Crypto == nil || !s.Crypto.Configured() {
		return MFASetup{}, ErrMFAUnavailable
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: accountName(user),
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFASetup{}, err
	}
	encrypted, err := s.Crypto.EncryptString(key.Secret())
	if err != nil {
		return MFASetup{}, err
	}
	if err := s.Store.UpdateMFASecret(ctx, user.UserID, encrypted); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// SetMFA enables or disables MFA after verifying a current code.
func (s *Service) SetMFA(ctx context.Context, userID, code string, enabled bool) error {
	if s.Crypto == nil || !s.Crypto.Configured() {
		return ErrMFAUnavailable
	}
	secretEnc, err := s.Store.GetMFASecret(ctx, userID)
	if err != nil {
		return err
	}
	if len(secretEnc) == 0 {
		return ErrMFANotSetUp
	}
	secret, err := s.decryptSecret(secretEnc)
	if err != nil {
		return ErrMFAInvalid
	}
	if !totp.Validate(code, secret) {
		return ErrMFAInvalid
	}
	return s.Store.SetMFAEnabled(ctx, userID, enabled)
}

func (s *Service) decryptSecret(secretEnc []byte) (string, error) {
	if s.Crypto == nil || !s.Crypto.Configured() {
		return string(secretEnc), nil
	}
	return s.Crypto.DecryptString(secretEnc)
}

func accountName(user UserContext) string {
	if user.Email != "" {
		return user.Email
	}
	return user.UserID
}
