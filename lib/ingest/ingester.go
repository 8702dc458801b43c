package ingest

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewIngester(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db *gorm.DB, transport http.RoundTripper) *Ingester {
	interval := time.Duration(cfg.IngestIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ing := &Ingester{
		cfg:       cfg,
		log:       log,
		db:        db,
		transport: transport,
		interval:  interval,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go ing.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop ingester")
			ing.Stop()
			return nil
		},
	})

	return ing
}

type Ingester struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *gorm.DB
	transport http.RoundTripper

	interval time.Duration
	cancel   context.CancelFunc
}

func (ing *Ingester) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	ing.cancel = cancel

	ticker := time.NewTicker(ing.interval)
	defer ticker.Stop()

	ing.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			ing.log.Sugar().Info("Ingester stopped")
			return

		case <-ticker.C:
			ing.runPass(ctx)
		}
	}
}

func (ing *Ingester) Stop() {
	if ing.cancel != nil {
		ing.cancel()
	}
}

func (ing *Ingester) runPass(ctx context.Context) {
	started := time.Now().UTC()

	m, err := ing.Run(ctx)
	switch {
	case errors.Is(err, ErrLockHeld):
		ing.log.Sugar().Warnf("Skipping ingest pass: %v", err)
		return
	case err != nil:
		ing.log.Sugar().Errorw("Ingest pass failed", "err", err)
		return
	}

	elapsed := time.Now().UTC().Sub(started)
	ing.log.Sugar().Infow(
		"Ingest pass completed",
		"sources", m.sources,
		"created", m.created,
		"updated", m.updated,
		"skipped", m.skipped,
		"errored", m.errored,
		"elapsed_msecs", int(elapsed.Milliseconds()),
	)
}

// Run performs one complete ingestion pass: acquire the run lock, seed
// sources, process every enabled source with per-source failure
// isolation, release the lock. A held lock aborts before any side
// effect.
func (ing *Ingester) Run(ctx context.Context) (*runMetrics, error) {
	release, err := acquireLock(ing.cfg.LockPath)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := ing.seedSources(ctx); err != nil {
		return nil, err
	}

	var sources models.Sources
	tx := ing.db.WithContext(ctx).Where("enabled = ?", true).Find(&sources)
	if err := tx.Error; err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := &runMetrics{}

	for i := range sources {
		src := &sources[i]
		wg.Add(1)

		go func() {
			defer wg.Done()

			m, err := ing.processSource(ctx, src)
			if err != nil {
				// Per-source failures never abort the pass.
				ing.log.Sugar().Errorw("Error processing source", "source", src.Name, "err", err)
				m.errored++
			}
			m.sources++

			mu.Lock()
			total.Add(m)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return total, nil
}

func (ing *Ingester) processSource(ctx context.Context, source *models.Source) (*runMetrics, error) {
	m := &runMetrics{}

	raw, err := ing.fetchURL(ctx, source.URL, feedTimeout)
	if err != nil {
		return m, err
	}

	items, err := parseFeed(raw)
	if err != nil {
		return m, err
	}

	now := time.Now()
	for _, item := range items {
		article, err := normalizeEntry(source, item, now, ing.cfg.Location)
		if errors.Is(err, errSkipEntry) {
			m.skipped++
			continue
		}

		created, err := ing.persistEntry(ctx, article)
		if err != nil {
			ing.log.Sugar().Errorw("Error persisting entry", "url", article.URL, "err", err)
			m.errored++
			continue
		}
		if created {
			m.created++
		} else {
			m.updated++
		}
	}

	return m, nil
}

// persistEntry is a two-phase write: the feed-supplied draft is upserted
// first, then scraped content amends the row. An article is never
// dropped because enrichment failed.
func (ing *Ingester) persistEntry(ctx context.Context, article *models.Article) (created bool, err error) {
	var existing int64
	tx := ing.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("hash = ?", article.Hash).
		Count(&existing)
	if err := tx.Error; err != nil {
		return false, err
	}

	if err := ing.upsert(ctx, article); err != nil {
		return false, err
	}

	before := [2]string{article.Content, article.ImageURL}
	ing.enrich(ctx, article)
	if [2]string{article.Content, article.ImageURL} != before {
		tx := ing.db.WithContext(ctx).
			Model(&models.Article{}).
			Where("hash = ?", article.Hash).
			Updates(map[string]any{"content": article.Content, "image_url": article.ImageURL})
		if err := tx.Error; err != nil {
			return false, err
		}
	}

	return existing == 0, nil
}

// upsert keys strictly on the dedup hash and overwrites every other
// field: last-write-wins for re-ingested entries, not a merge.
func (ing *Ingester) upsert(ctx context.Context, article *models.Article) error {
	tx := ing.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hash"}},
			UpdateAll: true,
		}).
		Create(article)
	return tx.Error
}
