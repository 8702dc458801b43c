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

var ErrNotFound = errors.New("article not found")

const articlesPerPage = 15

type articleLister struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

type ArticlePage struct {
	Articles models.Articles
	Page     int
	Stale    bool
}

// ListArticles returns one page ordered by published_at descending. The
// Stale flag is set when the newest ingested_at is older than the
// configured TTL, so the presentation layer can flag outdated listings.
func (svc *articleLister) ListArticles(ctx context.Context, page int) (*ArticlePage, error) {
	if page < 1 {
		page = 1
	}

	var articles models.Articles
	tx := svc.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(articlesPerPage).
		Offset((page - 1) * articlesPerPage).
		Find(&articles)
	if err := tx.Error; err != nil {
		return nil, err
	}

	stale, err := svc.isStale(ctx)
	if err != nil {
		return nil, err
	}

	return &ArticlePage{Articles: articles, Page: page, Stale: stale}, nil
}

func (svc *articleLister) isStale(ctx context.Context) (bool, error) {
	var latest models.Article
	tx := svc.db.WithContext(ctx).Order("ingested_at DESC").First(&latest)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	ttl := time.Duration(svc.cfg.StaleAfterMinutes) * time.Minute
	return time.Since(latest.IngestedAt) > ttl, nil
}

func (svc *articleLister) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	article := &models.Article{}
	tx := svc.db.WithContext(ctx).First(article, id)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return article, nil
}
