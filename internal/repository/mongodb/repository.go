// Package mongodb implements repository.ContentRepository on MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"semantiapi/internal/model"
	"semantiapi/internal/repository"
)

// Repository stores records of type T in a single collection.
type Repository[T any, PT model.RecordPtr[T]] struct {
	col *mongo.Collection
	now func() time.Time
}

var _ repository.ContentRepository[model.Blog] = (*Repository[model.Blog, *model.Blog])(nil)

// New returns a Repository bound to col.
func New[T any, PT model.RecordPtr[T]](col *mongo.Collection) *Repository[T, PT] {
	return &Repository[T, PT]{col: col, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts rec after assigning an id and timestamps.
func (r *Repository[T, PT]) Create(ctx context.Context, rec *T) error {
	p := PT(rec)
	if p.GetID().IsZero() {
		p.SetID(primitive.NewObjectID())
	}
	p.Touch(r.now())
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *Repository[T, PT]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *Repository[T, PT]) FindOne(ctx context.Context, filter repository.Filter) (*T, error) {
	var out T
	if err := r.col.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *Repository[T, PT]) FindAll(ctx context.Context, filter repository.Filter) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, filter, opts)
}

// List counts matches, then fetches the requested page sorted by pq.SortBy.
func (r *Repository[T, PT]) List(ctx context.Context, filter repository.Filter, pq repository.PageQuery) (*repository.PageResult[T], error) {
	pq = pq.Normalize()
	if filter == nil {
		filter = bson.M{}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: pq.SortBy, Value: pq.Direction()}}).
		SetSkip(pq.Skip()).
		SetLimit(int64(pq.Limit))
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return repository.NewPageResult(items, pq, int(total)), nil
}

func (r *Repository[T, PT]) find(ctx context.Context, filter repository.Filter, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	for cur.Next(ctx) {
		var rec T
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update $sets and $unsets only the fields in ch, stamps updatedAt and returns the
// document as stored afterwards.
func (r *Repository[T, PT]) Update(ctx context.Context, id primitive.ObjectID, ch repository.Changes) (*T, error) {
	set := bson.M{"updatedAt": r.now()}
	for k, v := range ch.Set {
		set[k] = v
	}
	update := bson.M{"$set": set}
	if len(ch.Unset) > 0 {
		unset := bson.M{}
		for _, k := range ch.Unset {
			unset[k] = ""
		}
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *Repository[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
