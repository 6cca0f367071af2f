package service_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vidpass/vidpass/internal/model"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/service"
)

type memAccessStore struct {
	mu     sync.Mutex
	grants map[string]*model.AccessGrant
}

func newMemAccessStore() *memAccessStore {
	return &memAccessStore{grants: map[string]*model.AccessGrant{}}
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

type recordingSender struct {
	mail chan mailMessage
	err  error
}

type mailMessage struct {
	to, subject, body string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{mail: make(chan mailMessage, 8)}
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.mail <- mailMessage{to: to, subject: subject, body: body}
	return s.err
}

func waitForMail(t *testing.T, sender *recordingSender) mailMessage {
	t.Helper()
	select {
	case msg := <-sender.mail:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no mail sent")
		return mailMessage{}
	}
}

func TestIssueCodeRange(t *testing.T) {
	store := newMemAccessStore()
	svc := service.NewAccessService(store, newRecordingSender(), nil)

	for i := 0; i < 50; i++ {
		code, err := svc.Issue(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.Len(t, code, 4)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1000)
		require.LessOrEqual(t, n, 9999)
	}
}

func TestIssueLastWriteWins(t *testing.T) {
	store := newMemAccessStore()
	svc := service.NewAccessService(store, newRecordingSender(), nil)

	first, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.Len(t, store.grants, 1)
	require.Equal(t, second, store.grants["a@x.com"].OTP)

	require.NoError(t, svc.Redeem(context.Background(), "a@x.com", second))
	if first != second {
		require.ErrorIs(t, svc.Redeem(context.Background(), "a@x.com", first), appErr.ErrUnauthorized)
	}
}

func TestRedeemDenied(t *testing.T) {
	store := newMemAccessStore()
	svc := service.NewAccessService(store, newRecordingSender(), nil)

	code, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Redeem(context.Background(), "b@x.com", code), appErr.ErrUnauthorized)
	require.ErrorIs(t, svc.Redeem(context.Background(), "a@x.com", "0000"), appErr.ErrUnauthorized)
	require.ErrorIs(t, svc.Redeem(context.Background(), "", ""), appErr.ErrUnauthorized)
}

func TestRedeemDoesNotConsume(t *testing.T) {
	store := newMemAccessStore()
	svc := service.NewAccessService(store, newRecordingSender(), nil)

	code, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.Redeem(context.Background(), "a@x.com", code))
	require.NoError(t, svc.Redeem(context.Background(), "a@x.com", code))
}

func TestIssueSendsMail(t *testing.T) {
	store := newMemAccessStore()
	sender := newRecordingSender()
	svc := service.NewAccessService(store, sender, nil)

	code, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)

	msg := waitForMail(t, sender)
	require.Equal(t, "a@x.com", msg.to)
	require.Contains(t, msg.body, code)
}

func TestIssueDeliveryFailureDoesNotPropagate(t *testing.T) {
	store := newMemAccessStore()
	sender := newRecordingSender()
	sender.err = errors.New("smtp down")
	svc := service.NewAccessService(store, sender, nil)

	code, err := svc.Issue(context.Background(), "a@x.com")
	require.NoError(t, err)
	waitForMail(t, sender)

	// The grant was stored despite the failed delivery.
	require.NoError(t, svc.Redeem(context.Background(), "a@x.com", code))
}

func TestIssueNormalizesEmail(t *testing.T) {
	store := newMemAccessStore()
	svc := service.NewAccessService(store, newRecordingSender(), nil)

	code, err := svc.Issue(context.Background(), "  A@X.com ")
	require.NoError(t, err)
	require.NoError(t, svc.Redeem(context.Background(), "a@x.com", code))
}

func TestIssueEmptyEmail(t *testing.T) {
	svc := service.NewAccessService(newMemAccessStore(), newRecordingSender(), nil)
	_, err := svc.Issue(context.Background(), "  ")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}
