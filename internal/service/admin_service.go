package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidpass/vidpass/internal/model"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/pkg/password"
	"github.com/vidpass/vidpass/internal/pkg/timeutil"
	"github.com/vidpass/vidpass/internal/pkg/token"
)

type AdminStore interface {
	Create(ctx context.Context, admin *model.AdminAccount) error
	GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error)
}

type AdminService struct {
	store        AdminStore
	sender       EmailSender
	jwtSecret    []byte
	resetBaseURL string
}

func NewAdminService(store AdminStore, sender EmailSender, jwtSecret []byte, resetBaseURL string) *AdminService {
	return &AdminService{
		store:        store,
		sender:       sender,
		jwtSecret:    jwtSecret,
		resetBaseURL: strings.TrimSuffix(resetBaseURL, "/"),
	}
}

func (s *AdminService) Register(ctx context.Context, email, plainPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || plainPassword == "" {
		return appErr.ErrInvalid
	}
	// The existence check gives duplicates a clean error; the primary key
	// on admin.email is the authoritative guard for the race window.
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return appErr.ErrConflict
	} else if !appErr.IsNotFound(err) {
		return err
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}
	now := timeutil.NowUnix()
	return s.store.Create(ctx, &model.AdminAccount{
		Email:        email,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	})
}

// Login returns a one-hour session token on success. An unknown email keeps
// its distinct ErrNotFound: the caller renders both failures as 401 but with
// different messages, matching the established API behavior.
func (s *AdminService) Login(ctx context.Context, email, plainPassword string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	admin, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := password.Compare(admin.PasswordHash, plainPassword); err != nil {
		return "", appErr.ErrUnauthorized
	}
	return token.Generate(admin.Email, s.jwtSecret, token.SessionTTL)
}

// RequestPasswordReset mails a ten-minute reset link. The send is awaited:
// it is the primary effect of this request, unlike the webhook path. The
// stored password is not touched here.
func (s *AdminService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return appErr.ErrInvalid
	}
	admin, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	resetToken, err := token.Generate(admin.Email, s.jwtSecret, token.ResetTTL)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Click this link to reset your password: %s/%s", s.resetBaseURL, resetToken)
	return s.sender.Send(admin.Email, "Admin Password Reset", body)
}
