package store

import (
	"bytes"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinisalazar/bioprov/pkg/document"
	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

const projectCollection = "projects"

// MongoStore keeps project documents in a MongoDB collection, one record
// per project tag. The serialized document travels as its JSON text, so
// the round-trip guarantees of the document package apply unchanged.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Tag      string `bson:"_id"`
	Document string `bson:"document"`
}

// NewMongoStore connects to the given URI and database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", uri)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(projectCollection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, tag string) (*model.Project, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": tag}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "project %q not in store", tag)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load project %q", tag)
	}
	return document.Read(bytes.NewReader([]byte(rec.Document)))
}

func (s *MongoStore) Put(ctx context.Context, p *model.Project) error {
	data, err := document.Marshal(p)
	if err != nil {
		return err
	}
	rec := mongoRecord{Tag: p.Tag, Document: string(data)}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": p.Tag}, rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store project %q", p.Tag)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, tag string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": tag}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete project %q", tag)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list projects")
	}
	defer cur.Close(ctx)

	var tags []string
	for cur.Next(ctx) {
		var rec struct {
			Tag string `bson:"_id"`
		}
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode project tag")
		}
		tags = append(tags, rec.Tag)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list projects")
	}
	return tags, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
