package authsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SuperarseTics/library-superarse-backend/model"
	authrepo "github.com/SuperarseTics/library-superarse-backend/repository/auth"
	"github.com/SuperarseTics/library-superarse-backend/util/hash"
	jwtutil "github.com/SuperarseTics/library-superarse-backend/util/jwt"
)

type ErrCode string

const (
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
	ErrBadInput     ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	// Login verifies credentials and issues a bearer token with expiry.
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)

	// Logout revokes the presented token by its jti.
	Logout(ctx context.Context, jti string) error

	// IsRevoked backs the auth gate's denylist check.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type service struct {
	r      authrepo.Repo
	secret string
	ttl    time.Duration
}

func New(r authrepo.Repo, secret string, ttl time.Duration) Service {
	return &service{r: r, secret: secret, ttl: ttl}
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", makeErr(ErrBadInput)
	}

	u, err := s.r.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidCreds)
		}
		return nil, "", err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	token, err := jwtutil.Issue(s.secret, u.ID, uuid.NewString(), s.ttl)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Logout(ctx context.Context, jti string) error {
	if jti == "" {
		return makeErr(ErrBadInput)
	}
	return s.r.RevokeToken(ctx, jti)
}

func (s *service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.r.IsRevoked(ctx, jti)
}
