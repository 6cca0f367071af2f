package handler_test

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vidpass/vidpass/internal/config"
	"github.com/vidpass/vidpass/internal/filestore"
	"github.com/vidpass/vidpass/internal/handler"
	"github.com/vidpass/vidpass/internal/middleware"
	"github.com/vidpass/vidpass/internal/model"
	"github.com/vidpass/vidpass/internal/payment"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/service"
)

const (
	testWebhookSecret = "whsec_test"
	testJWTSecret     = "test-jwt-secret"
)

type memAccessStore struct {
	mu     sync.Mutex
	grants map[string]*model.AccessGrant
}

func (m *memAccessStore) Upsert(ctx context.Context, grant *model.AccessGrant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *grant
	m.grants[grant.Email] = &copied
	return nil
}

func (m *memAccessStore) GetByEmailAndOTP(ctx context.Context, email, otp string) (*model.AccessGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grant, ok := m.grants[email]
	if !ok || grant.OTP != otp {
		return nil, appErr.ErrNotFound
	}
	copied := *grant
	return &copied, nil
}

func (m *memAccessStore) otpFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if grant, ok := m.grants[email]; ok {
		return grant.OTP
	}
	return ""
}

type memAdminStore struct {
	mu     sync.Mutex
	admins map[string]*model.AdminAccount
}

func (m *memAdminStore) Create(ctx context.Context, admin *model.AdminAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[admin.Email]; ok {
		return appErr.ErrConflict
	}
	copied := *admin
	m.admins[admin.Email] = &copied
	return nil
}

func (m *memAdminStore) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.admins[email]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	copied := *admin
	return &copied, nil
}

type memVideoStore struct {
	mu     sync.Mutex
	videos []*model.Video
}

func (m *memVideoStore) Create(ctx context.Context, video *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *video
	m.videos = append(m.videos, &copied)
	return nil
}

func (m *memVideoStore) List(ctx context.Context) ([]*model.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Video(nil), m.videos...), nil
}

type noopSender struct{}

func (noopSender) Send(to, subject, body string) error {
	return nil
}

type fixtures struct {
	access *memAccessStore
	admins *memAdminStore
	videos *memVideoStore
}

func setupRouter(t *testing.T) (http.Handler, *fixtures) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := &fixtures{
		access: &memAccessStore{grants: map[string]*model.AccessGrant{}},
		admins: &memAdminStore{admins: map[string]*model.AdminAccount{}},
		videos: &memVideoStore{},
	}

	accessService := service.NewAccessService(fx.access, noopSender{}, nil)
	adminService := service.NewAdminService(fx.admins, noopSender{}, []byte(testJWTSecret), "http://localhost:5000/reset-password")

	tmpDir, err := os.MkdirTemp("", "vidpass-upload-*")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": tmpDir},
	})
	require.NoError(t, err)
	videoService := service.NewVideoService(fx.videos, store, "http://localhost:5000")

	checkoutClient := payment.NewCheckoutClient(config.PaymentConfig{}, nil)

	webhookHandler, err := handler.NewWebhookHandler(accessService, testWebhookSecret, nil)
	require.NoError(t, err)

	deps := handler.RouterDeps{
		Webhook:   webhookHandler,
		Admin:     handler.NewAdminHandler(adminService),
		Signin:    handler.NewSigninHandler(accessService),
		Checkout:  handler.NewCheckoutHandler(checkoutClient, nil),
		Videos:    handler.NewVideoHandler(videoService, store),
		JWTSecret: []byte(testJWTSecret),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.CORS(nil))
	handler.RegisterRoutes(engine, deps)
	return engine, fx
}
