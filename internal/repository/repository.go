// Package repository contains data access layer abstractions.
// Implementations live in subpackages (mongo for content records, postgres for file metadata).
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

// Filter is a MongoDB query document.
type Filter = bson.M

// Changes is a partial update. Set keys may be dotted paths into embedded documents;
// fields not named are left as stored.
type Changes struct {
	Set   bson.M
	Unset []string
}

// Empty reports whether ch would not modify anything.
func (ch Changes) Empty() bool { return len(ch.Set) == 0 && len(ch.Unset) == 0 }

// ContentRepository defines persistence for a Mongo-backed record type.
// No business logic here; strictly persistence operations.
type ContentRepository[T any] interface {
	// Create inserts the record, assigning an id and timestamps when missing.
	Create(ctx context.Context, rec *T) error

	// FindByID returns ErrNotFound when no record has the id.
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)

	// FindOne returns the first record matching filter or ErrNotFound.
	FindOne(ctx context.Context, filter Filter) (*T, error)

	// FindAll returns every record matching filter, newest first.
	FindAll(ctx context.Context, filter Filter) ([]T, error)

	// List returns one page of records matching filter and the total match count.
	List(ctx context.Context, filter Filter, pq PageQuery) (*PageResult[T], error)

	// Update applies ch to the record with id and returns the stored result.
	// It returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, id primitive.ObjectID, ch Changes) (*T, error)

	// Delete removes a record by id. It returns ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
