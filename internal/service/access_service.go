package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vidpass/vidpass/internal/model"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/pkg/timeutil"
)

// AccessStore is the per-email grant state. Upsert must be atomic for a
// single row: concurrent issues for one email resolve last-write-wins.
type AccessStore interface {
	Upsert(ctx context.Context, grant *model.AccessGrant) error
	GetByEmailAndOTP(ctx context.Context, email, otp string) (*model.AccessGrant, error)
}

type AccessService struct {
	store  AccessStore
	sender EmailSender
	logger *zap.Logger
}

func NewAccessService(store AccessStore, sender EmailSender, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{store: store, sender: sender, logger: logger}
}

// Issue stores a fresh 4-digit code for the purchasing email, replacing any
// outstanding one, and mails it out. The mail is sent on its own goroutine:
// delivery failure is logged and never propagates to the caller, so the
// webhook acknowledgment does not depend on the notifier.
func (s *AccessService) Issue(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", appErr.ErrInvalid
	}
	code := s.generateCode()
	now := timeutil.NowUnix()
	grant := &model.AccessGrant{
		Email: email,
		OTP:   code,
		Ctime: now,
		Mtime: now,
	}
	if err := s.store.Upsert(ctx, grant); err != nil {
		return "", err
	}
	go func() {
		body := fmt.Sprintf("Your access code is: %s", code)
		if err := s.sender.Send(email, "Your access code", body); err != nil {
			s.logger.Error("send access code failed", zap.String("email", email), zap.Error(err))
		}
	}()
	return code, nil
}

// Redeem grants access iff the pair matches the stored grant exactly. Every
// miss is the same ErrUnauthorized; callers cannot tell an unknown email
// from a wrong code. The grant is not consumed.
func (s *AccessService) Redeem(ctx context.Context, email, otp string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return appErr.ErrUnauthorized
	}
	if _, err := s.store.GetByEmailAndOTP(ctx, email, otp); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrUnauthorized
		}
		return err
	}
	return nil
}

func (s *AccessService) generateCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%d", 1000+rng.Intn(9000))
}
