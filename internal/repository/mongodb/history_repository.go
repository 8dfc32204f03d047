package mongodb

import (
	"context"
	"fmt"
	"time"

	"case-exchange/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const writeTimeout = 5 * time.Second

// HistoryRepository 报价状态流转日志
type HistoryRepository interface {
	SaveTransition(ctx context.Context, doc *model.OfferTransition) error
	ListTransitions(ctx context.Context, offerID uint) ([]*model.OfferTransition, error)
}

type historyRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository 使用指定的数据库和集合
func NewHistoryRepository(client *mongo.Client, database, collection string) HistoryRepository {
	return &historyRepository{
		collection: client.Database(database).Collection(collection),
	}
}

// Connect 连接 MongoDB 并做一次 ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (r *historyRepository) SaveTransition(ctx context.Context, doc *model.OfferTransition) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert offer transition to Mongo: %w", err)
	}
	return nil
}

// ListTransitions 某报价的流转记录，按时间正序
func (r *historyRepository) ListTransitions(ctx context.Context, offerID uint) ([]*model.OfferTransition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.collection.Find(ctx, bson.M{"offer_id": offerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query offer transitions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []*model.OfferTransition
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode offer transitions: %w", err)
	}
	return docs, nil
}
