package lib

import (
	"context"
	"errors"
	"time"

	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDuplicateRead means this article was already counted for the
// subscriber on this local day. Callers treat it as already-metered,
// not as a failure.
var ErrDuplicateRead = errors.New("read already recorded for this day")

type readRecorder struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func (svc *readRecorder) RecordRead(ctx context.Context, subscriberID, articleID uint, at time.Time) error {
	evt := models.ReadEvent{
		SubscriberID: subscriberID,
		ArticleID:    articleID,
		Date:         localDay(at, svc.cfg.Location),
	}

	tx := svc.db.WithContext(ctx).Create(&evt)
	if err := tx.Error; errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRead
	} else if err != nil {
		return err
	}

	return nil
}
