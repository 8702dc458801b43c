package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jquah/newsreel/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env            string `env:"ENVIRONMENT"`
	ServerPort     int    `env:"SERVER_PORT" envDefault:"8080"`
	BasicAuthCreds string `env:"BASIC_AUTH_CREDS"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"newsreel.sqlite"`

	// Feed endpoints seeded into the source registry on every ingest run.
	Feeds []string `env:"FEEDS" envSeparator:"," envDefault:"https://hnrss.org/frontpage,https://www.theguardian.com/world/rss"`

	// Feeds frequently publish naive timestamps; they are interpreted in
	// this timezone, and metered reads are bucketed by its calendar day.
	Timezone string `env:"TIMEZONE" envDefault:"America/Chicago"`

	StaleAfterMinutes     int `env:"STALE_AFTER_MINUTES" envDefault:"60"`
	IngestIntervalMinutes int `env:"INGEST_INTERVAL_MINUTES" envDefault:"30"`

	LockPath string `env:"INGEST_LOCK_PATH" envDefault:"newsreel_ingest.lock"`

	PricePerDay float64 `env:"SUBSCRIPTION_PRICE_PER_DAY" envDefault:"1.00"`

	Mailgun struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	Location *time.Location
	Policies map[models.Tier]models.Policy

	log   *zap.Logger
	creds map[string]string
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		log.Sugar().Panicf("failed to parse environment: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Sugar().Infof("unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}
	cfg.Location = loc
	cfg.Policies = models.DefaultPolicies()

	creds, err := cfg.parseCreds()
	if err != nil {
		log.Sugar().Infof("%s (API auth will be disabled)", err)
	}
	cfg.creds = creds

	return cfg
}

func (cfg *Config) GetCreds() map[string]string {
	return cfg.creds
}

// PolicyFor maps a tier to its content-visibility policy. Unknown tiers
// get the anonymous policy.
func (cfg *Config) PolicyFor(tier models.Tier) models.Policy {
	if policy, ok := cfg.Policies[tier]; ok {
		return policy
	}
	return cfg.Policies[models.TierAnonymous]
}

func (cfg *Config) parseCreds() (map[string]string, error) {
	if cfg.BasicAuthCreds == "" {
		return nil, fmt.Errorf("BASIC_AUTH_CREDS envvar is not populated")
	}

	result := make(map[string]string)
	for _, cred := range strings.Split(cfg.BasicAuthCreds, ",") {
		userPass := strings.Split(cred, ":")
		if len(userPass) != 2 {
			return nil, fmt.Errorf("failed to parse '%s', each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}

		user, pass := userPass[0], userPass[1]
		result[strings.Trim(user, " ")] = strings.Trim(pass, " ")
	}

	return result, nil
}
