package config

import (
	"github.com/maxviazov/pager/internal/logger"
)

// Source kinds understood by the browse service.
const (
	KindPostgres = "postgres"
	KindRedis    = "redis"
	KindMongo    = "mongo"
)

type Config struct {
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"` // validated by logger.New
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Mongo    MongoConfig         `mapstructure:"mongo"`
	Pager    PagerConfig         `mapstructure:"pager"`
	Sources  []SourceConfig      `mapstructure:"sources" validate:"dive"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port" validate:"omitempty,gte=1,lte=65535"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"gte=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime" validate:"gte=0"`   // seconds
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time" validate:"gte=0"`  // seconds
	HealthCheckPeriod int    `mapstructure:"health_check_period" validate:"gte=0"` // seconds
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// PagerConfig holds the defaults every browse starts from.
// MaxPerPage 0 means the library default.
type PagerConfig struct {
	MaxPerPage int    `mapstructure:"max_per_page" validate:"gte=0"`
	Unbounded  bool   `mapstructure:"unbounded"`
	OutOfRange string `mapstructure:"out_of_range" validate:"omitempty,oneof=allow reject clamp"`
}

// SourceConfig names one pageable data set.
// Query is used by postgres, Key and Decode by redis, Collection by mongo.
type SourceConfig struct {
	Name       string `mapstructure:"name" validate:"required"`
	Kind       string `mapstructure:"kind" validate:"oneof=postgres redis mongo"`
	Query      string `mapstructure:"query" validate:"required_if=Kind postgres"`
	Key        string `mapstructure:"key" validate:"required_if=Kind redis"`
	Decode     string `mapstructure:"decode" validate:"omitempty,oneof=json string"`
	Collection string `mapstructure:"collection" validate:"required_if=Kind mongo"`
}

// Uses reports whether any source needs the given backend.
func (c *Config) Uses(kind string) bool {
	for _, s := range c.Sources {
		if s.Kind == kind {
			return true
		}
	}
	return false
}
