package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultTestTimeout bounds a single test's database work.
const DefaultTestTimeout = 30 * time.Second

// MongoURIEnv overrides the server used by SetupTestDB.
const MongoURIEnv = "FLICKHUB_TEST_MONGO_URI"

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

func mongoURI() string {
	if uri := os.Getenv(MongoURIEnv); uri != "" {
		return uri
	}
	return "mongodb://localhost:27017"
}

func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		opts := options.Client().ApplyURI(mongoURI()).SetServerSelectionTimeout(2 * time.Second)
		client, clientErr = mongo.Connect(ctx, opts)
		if clientErr != nil {
			return
		}
		clientErr = client.Ping(ctx, nil)
	})
	return client, clientErr
}

// SetupTestDB returns a fresh, uniquely named database and drops it when
// the test finishes. The test is skipped when no MongoDB server is
// reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}

	db := c.Database("flickhub_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
	})
	return db
}

// TestContext returns a context with DefaultTestTimeout.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultTestTimeout)
}

// NewClient connects a client of its own for tests that disconnect it.
// The test is skipped when no MongoDB server is reachable.
func NewClient(t *testing.T) *mongo.Client {
	t.Helper()

	if _, err := sharedClient(); err != nil {
		t.Skipf("mongodb not available: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI()).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })
	return c
}
