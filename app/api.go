package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jquah/newsreel/config"
	"github.com/jquah/newsreel/lib"
	"github.com/jquah/newsreel/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Subscriber identity is established by an upstream collaborator and
// arrives as a plain header; 0/absent means anonymous.
const subscriberHeader = "X-Subscriber-ID"

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(cfg, log, svc)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(cfg *config.Config, log *zap.Logger, svc *lib.Service) http.Handler {
	ctrl := &controller{log, svc}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", ctrl.listArticles)
		r.Get("/articles/{article_id}", ctrl.articleDetail)

		r.Route("/users", func(r chi.Router) {
			if creds := cfg.GetCreds(); len(creds) > 0 {
				r.Use(middleware.BasicAuth("newsreel", creds))
			} else {
				log.Sugar().Info("Auth is disabled since no credentials are defined")
			}

			r.Get("/{user_id}/tier", ctrl.subscriberTier)
			r.Post("/{user_id}/subscription", ctrl.purchase)
		})
	})

	return r
}

type controller struct {
	log *zap.Logger
	svc *lib.Service
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Errorw("Request failed", "error", err)
		return
	} else {
		w.WriteHeader(status)
		if b != nil {
			w.Write(b)
		}
	}
}

// callerTier resolves the requester's tier; absent identity is the
// distinguished anonymous pseudo-tier, assigned here and never by the
// resolver.
func (ctrl *controller) callerTier(r *http.Request) (uint, models.Tier, error) {
	subscriberID := parseInt(r.Header.Get(subscriberHeader))
	if subscriberID == 0 {
		return 0, models.TierAnonymous, nil
	}

	tier, err := ctrl.svc.ResolveTier(r.Context(), subscriberID, time.Now())
	return subscriberID, tier, err
}

func (ctrl *controller) listArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, tier, err := ctrl.callerTier(r)
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}
	policy := ctrl.svc.PolicyFor(tier)

	page, err := ctrl.svc.ListArticles(ctx, parsePage(r.URL.Query().Get("page")))
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}

	ctrl.resolve(w, 200, ArticlePageView{}.From(page, tier, policy))
}

func (ctrl *controller) articleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articleID := parseInt(chi.URLParam(r, "article_id"))

	subscriberID, tier, err := ctrl.callerTier(r)
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}

	if err := ctrl.svc.AuthorizeDetail(tier); err != nil {
		// Distinguishable upgrade prompt, not a 404.
		ctrl.resolve(w, http.StatusForbidden, map[string]any{
			"error":            "forbidden",
			"upgrade_required": true,
			"tier":             tier,
		})
		return
	}

	article, err := ctrl.svc.GetArticle(ctx, articleID)
	if errors.Is(err, lib.ErrNotFound) {
		ctrl.reject(w, http.StatusNotFound, err)
		return
	} else if err != nil {
		ctrl.reject(w, 500, err)
		return
	}

	if subscriberID != 0 {
		err := ctrl.svc.RecordRead(ctx, subscriberID, article.ID, time.Now())
		if err != nil && !errors.Is(err, lib.ErrDuplicateRead) {
			ctrl.log.Sugar().Warnw("Failed to record read", "err", err)
		}
	}

	ctrl.resolve(w, 200, ArticleView{}.From(article))
}

func (ctrl *controller) subscriberTier(w http.ResponseWriter, r *http.Request) {
	subscriberID := parseInt(chi.URLParam(r, "user_id"))

	tier, err := ctrl.svc.ResolveTier(r.Context(), subscriberID, time.Now())
	if err != nil {
		ctrl.reject(w, 500, err)
		return
	}

	policy := ctrl.svc.PolicyFor(tier)
	ctrl.resolve(w, 200, map[string]any{
		"tier":           tier,
		"content_level":  policy.ContentLevel,
		"detail_allowed": policy.DetailAllowed,
	})
}

func (ctrl *controller) purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subscriberID := parseInt(chi.URLParam(r, "user_id"))
	tier := models.Tier(r.FormValue("tier"))
	days := int(parseInt(r.FormValue("days")))
	method := r.FormValue("method")
	email := r.FormValue("email")

	if subscriberID == 0 {
		ctrl.reject(w, 400, errors.New("user_id is required"))
		return
	}

	sub, err := ctrl.svc.PurchaseSubscription(ctx, subscriberID, tier, days, method, email)
	if err != nil {
		ctrl.reject(w, 400, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SubscriptionView{}.From(sub))
}

func parseInt(s string) uint {
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}

func parsePage(s string) int {
	page, _ := strconv.Atoi(s)
	if page < 1 {
		page = 1
	}
	return page
}
