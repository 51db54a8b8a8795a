// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
)

// Collection names match the documents written by earlier deployments of
// the board, so an existing database can be served as-is.
const (
	feedbackCollection = "feedbacks"
	commentCollection  = "comments"
)

// ConnectMongo opens a MongoDB client and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("mongodb connected")
	return client, nil
}

// EnsureMongoIndexes creates the indexes used by listing and comment lookups.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(feedbackCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "upvotes", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create feedback indexes: %w", err)
	}

	_, err = db.Collection(commentCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "feedback", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create comment indexes: %w", err)
	}
	return nil
}

// feedbackDoc is the stored shape of a feedback item.
type feedbackDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Category    string        `bson:"category"`
	Status      string        `bson:"status"`
	Upvotes     int           `bson:"upvotes"`
	CreatedAt   time.Time     `bson:"createdAt"`
}

func (d *feedbackDoc) model() *models.Feedback {
	return &models.Feedback{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Category:    models.Category(d.Category),
		Status:      models.Status(d.Status),
		Upvotes:     d.Upvotes,
		CreatedAt:   d.CreatedAt,
	}
}

// commentDoc is the stored shape of a comment.
type commentDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Feedback  bson.ObjectID `bson:"feedback"`
	Content   string        `bson:"content"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d *commentDoc) model() *models.Comment {
	return &models.Comment{
		ID:         d.ID.Hex(),
		FeedbackID: d.Feedback.Hex(),
		Content:    d.Content,
		CreatedAt:  d.CreatedAt,
	}
}

// parseObjectID converts a path id to an ObjectID, reporting malformed
// input as models.ErrInvalidID.
func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, models.ErrInvalidID
	}
	return oid, nil
}

// MongoFeedbackStore handles feedback persistence in a MongoDB collection.
type MongoFeedbackStore struct {
	coll *mongo.Collection
}

// NewMongoFeedbackStore returns a feedback store over db's feedbacks collection.
func NewMongoFeedbackStore(db *mongo.Database) *MongoFeedbackStore {
	return &MongoFeedbackStore{coll: db.Collection(feedbackCollection)}
}

// Create inserts a new feedback document.
func (s *MongoFeedbackStore) Create(ctx context.Context, in models.NewFeedback) (*models.Feedback, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	doc := feedbackDoc{
		ID:          bson.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    string(in.Category),
		Status:      string(models.StatusOpen),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return doc.model(), nil
}

// GetByID retrieves a feedback document by ObjectID.
func (s *MongoFeedbackStore) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc feedbackDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find feedback by id: %w", err)
	}
	return doc.model(), nil
}

// List returns the feedback documents selected by q.
func (s *MongoFeedbackStore) List(ctx context.Context, q query.Query) ([]models.Feedback, error) {
	opts := options.Find().SetSort(mongoSort(q.Sort))

	cursor, err := s.coll.Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}

	var docs []feedbackDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedbacks: %w", err)
	}

	items := make([]models.Feedback, 0, len(docs))
	for i := range docs {
		items = append(items, *docs[i].model())
	}
	return items, nil
}

// IncrementUpvote applies $inc server-side and returns the updated document.
func (s *MongoFeedbackStore) IncrementUpvote(ctx context.Context, id string) (*models.Feedback, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.findAndUpdate(ctx, oid, bson.M{"$inc": bson.M{"upvotes": 1}}, "upvote feedback")
}

// SetStatus replaces the status field of a feedback document.
func (s *MongoFeedbackStore) SetStatus(ctx context.Context, id string, status models.Status) (*models.Feedback, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.findAndUpdate(ctx, oid, bson.M{"$set": bson.M{"status": string(status)}}, "set feedback status")
}

func (s *MongoFeedbackStore) findAndUpdate(ctx context.Context, oid bson.ObjectID, update bson.M, op string) (*models.Feedback, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc feedbackDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.model(), nil
}

// mongoFilter renders f as a query document. Search text is quoted so it
// matches literally.
func mongoFilter(f query.Filter) bson.M {
	filter := bson.M{}
	if f.Text != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(f.Text), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	return filter
}

// mongoSort renders s as a sort document.
func mongoSort(s query.Sort) bson.D {
	field := "createdAt"
	if s.Field == query.SortUpvotes {
		field = "upvotes"
	}
	dir := -1
	if s.Ascending {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}

// MongoCommentStore handles comment persistence in a MongoDB collection.
type MongoCommentStore struct {
	coll      *mongo.Collection
	feedbacks FeedbackRepository
}

// NewMongoCommentStore returns a comment store over db's comments collection.
func NewMongoCommentStore(db *mongo.Database, feedbacks FeedbackRepository) *MongoCommentStore {
	return &MongoCommentStore{coll: db.Collection(commentCollection), feedbacks: feedbacks}
}

// Create inserts a comment for an existing feedback item.
func (s *MongoCommentStore) Create(ctx context.Context, feedbackID, content string) (*models.Comment, error) {
	content, err := models.NormalizeCommentContent(content)
	if err != nil {
		return nil, err
	}
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(fb.ID)
	if err != nil {
		return nil, err
	}

	doc := commentDoc{
		ID:        bson.NewObjectID(),
		Feedback:  oid,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return doc.model(), nil
}

// ListByFeedback returns all comments of an existing item, oldest first.
func (s *MongoCommentStore) ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error) {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(fb.ID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"feedback": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	var docs []commentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	items := make([]models.Comment, 0, len(docs))
	for i := range docs {
		items = append(items, *docs[i].model())
	}
	return items, nil
}
