package lib

import (
	"time"

	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	senders senders.Registry

	*tierResolver
	*readRecorder
	*purchaser
	*articleLister
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db *gorm.DB, senders senders.Registry) *Service {
	return &Service{
		cfg, log, db, senders,
		&tierResolver{cfg, log, db},
		&readRecorder{cfg, log, db},
		&purchaser{cfg, log, db, senders},
		&articleLister{cfg, log, db},
	}
}

// localDate truncates t to its calendar day in the deployment timezone,
// normalized to a UTC midnight so date-interval comparisons stay exact.
func localDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func localDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
