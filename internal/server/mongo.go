package server

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tablekit/tablekit/pkg/errors"
)

const datasetsCollection = "datasets"

// MongoStore is a MongoDB-backed dataset store for deployments where
// datasets outlive the process. Each dataset is one document with the
// Parquet payload stored as a binary field.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(datasetsCollection),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, d *Dataset) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "store dataset %s", d.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Dataset, error) {
	var d Dataset
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "dataset %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load dataset %s", id)
	}
	return &d, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete dataset %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDatasetNotFound, "dataset %s not found", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Dataset, error) {
	opts := options.Find().
		SetProjection(bson.M{"payload": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list datasets")
	}
	defer cur.Close(ctx)

	out := make([]*Dataset, 0)
	for cur.Next(ctx) {
		var d Dataset
		if err := cur.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode dataset")
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list datasets")
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
