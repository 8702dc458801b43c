package app

import (
	"database/sql"
	"time"

	"github.com/jquah/newsreel/lib"
	"github.com/jquah/newsreel/lib/models"
	"github.com/samber/lo"
)

type ArticlePageView struct {
	Page         int                  `json:"page"`
	Stale        bool                 `json:"stale"`
	Tier         models.Tier          `json:"tier"`
	ContentLevel models.ContentLevel  `json:"content_level"`
	Articles     []ArticleListingView `json:"articles"`
}

// ArticleListingView is the tier-aware row on the headlines page: every
// tier sees the headline, only full-content tiers see the summary.
type ArticleListingView struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
	Summary     *string `json:"summary,omitempty"`
	PublishedAt *string `json:"published_at"`
}

type ArticleView struct {
	ID          uint    `json:"id"`
	SourceID    uint    `json:"source_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	ImageURL    string  `json:"image_url"`
	PublishedAt *string `json:"published_at"`
	IngestedAt  string  `json:"ingested_at"`
}

type SubscriptionView struct {
	ID           uint        `json:"id"`
	SubscriberID uint        `json:"subscriber_id"`
	Tier         models.Tier `json:"tier"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
}

func (view ArticlePageView) From(page *lib.ArticlePage, tier models.Tier, policy models.Policy) ArticlePageView {
	return ArticlePageView{
		Page:         page.Page,
		Stale:        page.Stale,
		Tier:         tier,
		ContentLevel: policy.ContentLevel,
		Articles: lo.Map(page.Articles, func(a models.Article, _ int) ArticleListingView {
			return ArticleListingView{}.From(&a, policy)
		}),
	}
}

func (view ArticleListingView) From(entity *models.Article, policy models.Policy) ArticleListingView {
	v := ArticleListingView{
		ID:          entity.ID,
		Title:       entity.Title,
		URL:         entity.URL,
		ImageURL:    entity.ImageURL,
		PublishedAt: isoformat(entity.PublishedAt),
	}
	if policy.ContentLevel == models.ContentLevelFull {
		v.Summary = &entity.Summary
	}
	return v
}

func (view ArticleView) From(entity *models.Article) ArticleView {
	return ArticleView{
		ID:          entity.ID,
		SourceID:    entity.SourceID,
		Title:       entity.Title,
		URL:         entity.URL,
		Summary:     entity.Summary,
		Content:     entity.Content,
		ImageURL:    entity.ImageURL,
		PublishedAt: isoformat(entity.PublishedAt),
		IngestedAt:  entity.IngestedAt.UTC().Format(time.RFC3339),
	}
}

func (view SubscriptionView) From(entity *models.Subscription) SubscriptionView {
	return SubscriptionView{
		ID:           entity.ID,
		SubscriberID: entity.SubscriberID,
		Tier:         entity.Tier,
		StartDate:    entity.StartDate.Format("2006-01-02"),
		EndDate:      entity.EndDate.Format("2006-01-02"),
	}
}

func isoformat(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.UTC().Format(time.RFC3339)
	return &s
}
