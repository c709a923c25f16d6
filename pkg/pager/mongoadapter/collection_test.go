package mongoadapter_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maxviazov/pager/internal/repository/contract"
	"github.com/maxviazov/pager/pkg/pager"
	"github.com/maxviazov/pager/pkg/pager/mongoadapter"
)

var client *mongo.Client

func TestMain(m *testing.M) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		// contract tests need a live server; everything else runs regardless
		os.Exit(m.Run())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	cancel()
	if err != nil {
		fmt.Println("[contract] mongo connect error:", err)
		os.Exit(1)
	}
	client = c
	code := m.Run()
	_ = client.Disconnect(context.Background())
	os.Exit(code)
}

type doc struct {
	Seq   int    `bson:"seq"`
	Value string `bson:"value"`
}

func TestCollectionAdapter_Contract(t *testing.T) {
	if client == nil {
		t.Skip("mongo contract tests skipped; set MONGO_URI")
	}
	contract.RunAdapterContract(t, func(t *testing.T, items []string) (pager.Adapter[string], func()) {
		ctx := context.Background()
		coll := client.Database("pager_contract").Collection(fmt.Sprintf("items_%d", time.Now().UnixNano()))
		if len(items) > 0 {
			docs := make([]any, len(items))
			for i, it := range items {
				docs[i] = doc{Seq: i, Value: it}
			}
			if _, err := coll.InsertMany(ctx, docs); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
		a, err := mongoadapter.NewCollectionAdapter[doc](coll, mongoadapter.WithSort(bson.D{{Key: "seq", Value: 1}}))
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		values := pager.Transform[doc, string](a, func(d doc) (string, error) { return d.Value, nil })
		return values, func() { _ = coll.Drop(ctx) }
	})
}

func TestCollectionAdapter_Filter(t *testing.T) {
	if client == nil {
		t.Skip("mongo contract tests skipped; set MONGO_URI")
	}
	ctx := context.Background()
	coll := client.Database("pager_contract").Collection(fmt.Sprintf("filter_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = coll.Drop(ctx) })

	docs := make([]any, 10)
	for i := range docs {
		docs[i] = doc{Seq: i, Value: fmt.Sprintf("v%d", i)}
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	a, err := mongoadapter.NewCollectionAdapter[doc](coll,
		mongoadapter.WithFilter(bson.D{{Key: "seq", Value: bson.D{{Key: "$gte", Value: 6}}}}),
		mongoadapter.WithSort(bson.D{{Key: "seq", Value: -1}}),
	)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	n, err := a.Count(ctx)
	if err != nil || n != 4 {
		t.Fatalf("expected 4 matching docs, got %d (err=%v)", n, err)
	}
	got, err := a.Slice(ctx, 0, 2)
	if err != nil {
		t.Fatalf("slice failed: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 9 || got[1].Seq != 8 {
		t.Fatalf("unexpected window: %+v", got)
	}
}

func TestNewCollectionAdapter_RequiresCollection(t *testing.T) {
	if _, err := mongoadapter.NewCollectionAdapter[doc](nil); err == nil {
		t.Fatalf("expected error for nil collection")
	}
}
