package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type DB struct {
	URL             string        `env:"DATABASE_URL,required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"8"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"15m"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"JWT_TOKEN_TTL" envDefault:"168h"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" envDefault:"MTG Artist Connection <noreply@mtgartistconnection.com>"`
}

type Kafka struct {
	Brokers    string `env:"KAFKA_BROKERS"`
	AuditTopic string `env:"KAFKA_AUDIT_TOPIC" envDefault:"artistconnection.audit"`
}

type Feeds struct {
	ManapoolURL    string        `env:"MANAPOOL_API_URL" envDefault:"https://manapool.com/api/v1/prices/singles"`
	CardKingdomURL string        `env:"CARDKINGDOM_API_URL" envDefault:"https://api.cardkingdom.com/api/pricelist"`
	ScryfallURL    string        `env:"SCRYFALL_ARTISTS_URL" envDefault:"https://api.scryfall.com/catalog/artist-names"`
	FetchTimeout   time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"5m"`
	MaxBodyBytes   int64         `env:"FEED_MAX_BODY_BYTES" envDefault:"104857600"`
}

type Schedules struct {
	ArtistDigest    string `env:"SCHEDULE_ARTIST_DIGEST" envDefault:"0 2 * * *"`
	EventDigest     string `env:"SCHEDULE_EVENT_DIGEST" envDefault:"15 2 * * *"`
	ManapoolSync    string `env:"SCHEDULE_MANAPOOL_SYNC" envDefault:"0 3 * * *"`
	CardKingdomSync string `env:"SCHEDULE_CARDKINGDOM_SYNC" envDefault:"30 3 * * *"`
	CatalogDiff     string `env:"SCHEDULE_CATALOG_DIFF" envDefault:"0 4 * * *"`
}

type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	FrontendURL    string `env:"FRONTEND_URL" envDefault:"https://mtgartistconnection.com"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`

	// When set, digest emails go to admin users only. Used while the
	// notification pipeline is being rolled out.
	DigestAdminOnly bool `env:"DIGEST_ADMIN_ONLY" envDefault:"false"`

	DB        DB
	Auth      Auth
	SMTP      SMTP
	Kafka     Kafka
	Feeds     Feeds
	Schedules Schedules
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
