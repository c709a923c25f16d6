package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// secrets are bound explicitly so APP_* env vars apply even when the file omits the key.
var secretKeys = []string{
	"postgres.user",
	"postgres.password",
	"postgres.db",
	"redis.password",
	"mongo.uri",
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for _, k := range secretKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}
	setDefaults(v)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("postgres.health_check_period", 30)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("pager.out_of_range", "allow")
}

// Validate runs struct tags first, then checks that every referenced backend is configured.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	var errs []error
	seen := make(map[string]struct{}, len(c.Sources))
	for _, s := range c.Sources {
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("source %q declared twice", s.Name))
		}
		seen[s.Name] = struct{}{}
	}
	if c.Uses(KindPostgres) && (c.Postgres.User == "" || c.Postgres.DBName == "") {
		errs = append(errs, errors.New("postgres sources need postgres.user and postgres.db (APP_POSTGRES_USER, APP_POSTGRES_DB)"))
	}
	if c.Uses(KindMongo) && (c.Mongo.URI == "" || c.Mongo.Database == "") {
		errs = append(errs, errors.New("mongo sources need mongo.uri and mongo.database"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}
