package lib

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/lib/models"
	"github.com/jquah/newsreel/senders"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) Send(ctx context.Context, subject, body, recipient string) (string, error) {
	s.sent = append(s.sent, recipient)
	return "stub-message-id", s.err
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *stubSender) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{
		StaleAfterMinutes: 60,
		PricePerDay:       1.00,
		Location:          time.UTC,
		Policies:          models.DefaultPolicies(),
	}

	stub := &stubSender{}
	svc := NewService(fxtest.NewLifecycle(t), cfg, zap.NewNop(), db, senders.Registry{"email": stub})
	return svc, db, stub
}
