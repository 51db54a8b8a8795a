package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
)

// newMongoBackend connects to MONGODB_URI and uses a throwaway database.
// The test is skipped when MONGODB_URI is unset or unreachable.
func newMongoBackend(t *testing.T) backend {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("skipping integration test: MONGODB_URI not set")
	}

	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("skipping integration test: mongo not reachable: %v", err)
	}

	db := client.Database("feedbackboard_test_" + bson.NewObjectID().Hex())
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})

	feedbacks := NewMongoFeedbackStore(db)
	return backend{
		feedbacks:   feedbacks,
		comments:    NewMongoCommentStore(db, feedbacks),
		malformedID: "not-an-object-id",
		missingID:   bson.NewObjectID().Hex(),
	}
}

func TestMongoStoreContract(t *testing.T) {
	newMongoBackend(t)
	runContract(t, newMongoBackend)
}

func TestMongoFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, mongoFilter(query.Filter{}))

	f := mongoFilter(query.Filter{Text: "a.b", Status: models.StatusOpen, Category: models.CategoryBug})
	pattern := bson.Regex{Pattern: `a\.b`, Options: "i"}
	assert.Equal(t, bson.A{bson.M{"title": pattern}, bson.M{"description": pattern}}, f["$or"])
	assert.Equal(t, "Open", f["status"])
	assert.Equal(t, "Bug", f["category"])
}

func TestMongoSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, mongoSort(query.Default().Sort))
	assert.Equal(t, bson.D{{Key: "upvotes", Value: 1}}, mongoSort(query.Sort{Field: query.SortUpvotes, Ascending: true}))
}

func TestParseObjectID(t *testing.T) {
	_, err := parseObjectID("xyz")
	assert.ErrorIs(t, err, models.ErrInvalidID)

	oid := bson.NewObjectID()
	got, err := parseObjectID(oid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, oid, got)
}
