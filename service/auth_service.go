package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
	"github.com/shahriakhansejan/core-bits-server/store"
	"github.com/shahriakhansejan/core-bits-server/utils"
)

// AuthService issues and validates the JWTs the access policy gate relies
// on. Registration is out of scope; accounts are provisioned externally.
type AuthService struct {
	users      store.UserStore
	secret     []byte
	expiration time.Duration
	log        *zap.SugaredLogger
}

func NewAuthService(users store.UserStore, secret string, expiration time.Duration, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), expiration: expiration, log: log}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, errs.NewInvalidArgument("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return nil, errs.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errs.NewUnauthorized("invalid credentials")
	}

	token, err := utils.GenerateJWT(s.secret, s.expiration, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}

	s.log.Infow("user logged in", "email", user.Email, "role", user.Role)
	return &LoginResult{Token: token, User: user}, nil
}

// Resolve validates a token and loads the current user record, producing
// the Identity every core operation takes. Role and affiliation come from
// the store, not the token, so a role change takes effect immediately.
func (s *AuthService) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := utils.ValidateJWT(s.secret, token)
	if err != nil {
		return Identity{}, errs.NewUnauthorized("invalid or expired token")
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			return Identity{}, errs.NewUnauthorized("user no longer exists")
		}
		return Identity{}, err
	}

	return Identity{
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		HREmail: user.HREmail,
	}, nil
}
