package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maxviazov/pager/internal/config"
	"github.com/maxviazov/pager/internal/repository"
	"github.com/maxviazov/pager/internal/repository/postgres"
	"github.com/maxviazov/pager/internal/service"
	"github.com/maxviazov/pager/pkg/pager"
	"github.com/maxviazov/pager/pkg/pager/mongoadapter"
	"github.com/maxviazov/pager/pkg/pager/redisadapter"
)

// backends holds the connections opened for the configured sources.
type backends struct {
	pg    *repository.Repository
	redis *redis.Client
	mongo *mongo.Client
}

func (b *backends) Close() {
	if b.pg != nil {
		b.pg.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.mongo != nil {
		_ = b.mongo.Disconnect(context.Background())
	}
}

// connect opens only the backends some source actually uses and probes each one.
func connect(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*backends, error) {
	b := &backends{}
	probes := map[string]repository.Pinger{}

	if cfg.Uses(config.KindPostgres) {
		pg, err := repository.New(ctx, &cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		b.pg = pg
		probes[config.KindPostgres] = pg
	}
	if cfg.Uses(config.KindRedis) {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		probes[config.KindRedis] = pingFunc(func(ctx context.Context) error { return b.redis.Ping(ctx).Err() })
	}
	if cfg.Uses(config.KindMongo) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		b.mongo = client
		probes[config.KindMongo] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })
	}

	for kind, p := range probes {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to ping %s: %w", kind, err)
		}
		logger.Info().Str("backend", kind).Msg("backend is reachable")
	}
	return b, nil
}

// pingFunc lets a client method satisfy repository.Pinger.
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// buildSources turns every configured source into a service.Source over the open backends.
func buildSources(cfg *config.Config, b *backends) ([]service.Source, error) {
	out := make([]service.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		src, err := buildSource(cfg, sc, b)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		out = append(out, src)
	}
	return out, nil
}

func buildSource(cfg *config.Config, sc config.SourceConfig, b *backends) (service.Source, error) {
	src := service.Source{Name: sc.Name, Kind: sc.Kind}
	switch sc.Kind {
	case config.KindPostgres:
		if b.pg == nil {
			return src, errors.New("postgres is not connected")
		}
		a, err := postgres.NewMapQueryAdapter(b.pg.Pool(), sc.Query)
		if err != nil {
			return src, err
		}
		src.Adapter = asAny[map[string]any](a)
		src.Tx = postgres.NewTxManager(b.pg.Pool())

	case config.KindRedis:
		if b.redis == nil {
			return src, errors.New("redis is not connected")
		}
		if sc.Decode == "json" {
			a, err := redisadapter.NewListAdapter(b.redis, sc.Key, redisadapter.JSONDecoder[any]())
			if err != nil {
				return src, err
			}
			src.Adapter = a
		} else {
			a, err := redisadapter.NewListAdapter(b.redis, sc.Key, redisadapter.StringDecoder)
			if err != nil {
				return src, err
			}
			src.Adapter = asAny[string](a)
		}

	case config.KindMongo:
		if b.mongo == nil {
			return src, errors.New("mongo is not connected")
		}
		coll := b.mongo.Database(cfg.Mongo.Database).Collection(sc.Collection)
		a, err := mongoadapter.NewCollectionAdapter[bson.M](coll)
		if err != nil {
			return src, err
		}
		src.Adapter = asAny[bson.M](a)

	default:
		return src, fmt.Errorf("unsupported kind %q", sc.Kind)
	}
	return src, nil
}

func asAny[T any](a pager.Adapter[T]) pager.Adapter[any] {
	return pager.Transform(a, func(v T) (any, error) { return v, nil })
}
