package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"semantiapi/internal/apperr"
	"semantiapi/internal/model"
	"semantiapi/internal/repository"
)

// FilterBuilder turns list query parameters into a Mongo filter.
type FilterBuilder func(params map[string]string) (repository.Filter, error)

// ContentService defines the CRUD use cases shared by every Mongo-backed record type.
type ContentService[T any] interface {
	// Create normalizes and validates rec, then inserts it.
	Create(ctx context.Context, rec *T) (*T, error)

	// Get returns a record by its hex ObjectID.
	Get(ctx context.Context, id string) (*T, error)

	// Update merges a JSON patch onto the stored record. _id and timestamps cannot be changed.
	Update(ctx context.Context, id string, patch []byte) (*T, error)

	// Delete removes a record by its hex ObjectID.
	Delete(ctx context.Context, id string) error

	// List filters by params and returns one page.
	List(ctx context.Context, params map[string]string, pq repository.PageQuery) (*repository.PageResult[T], error)

	// FindOne returns the first record matching filter.
	FindOne(ctx context.Context, filter repository.Filter) (*T, error)

	// FindAll returns every record matching filter, newest first.
	FindAll(ctx context.Context, filter repository.Filter) ([]T, error)
}

// contentService is the generic implementation of ContentService.
type contentService[T any, PT model.RecordPtr[T]] struct {
	repo     repository.ContentRepository[T]
	validate *validator.Validate
	filters  FilterBuilder
	notFound *apperr.Error
}

// NewContentService constructs a ContentService. entity names the record in not-found
// messages ("Job description" gives "Job description not found"). filters may be nil.
func NewContentService[T any, PT model.RecordPtr[T]](repo repository.ContentRepository[T], v *validator.Validate, entity string, filters FilterBuilder) ContentService[T] {
	return &contentService[T, PT]{
		repo:     repo,
		validate: v,
		filters:  filters,
		notFound: apperr.NotFound(entity + " not found"),
	}
}

// ParseID converts a hex string into an ObjectID or returns a CastError.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &apperr.CastError{Path: "_id", Value: id}
	}
	return oid, nil
}

func (s *contentService[T, PT]) prepare(rec *T) error {
	if n, ok := any(rec).(model.Normalizer); ok {
		n.Normalize()
	}
	return s.validate.Struct(rec)
}

func (s *contentService[T, PT]) Create(ctx context.Context, rec *T) (*T, error) {
	if rec == nil {
		return nil, apperr.BadRequest("Request body is required")
	}
	if err := s.prepare(rec); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *contentService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return rec, nil
}

// immutableFields are stripped from patches before they are applied.
var immutableFields = []string{"_id", "id", "createdAt", "updatedAt"}

// Update writes only the fields the patch actually changed, so concurrent updates to
// different fields of the same record are both kept.
func (s *contentService[T, PT]) Update(ctx context.Context, id string, patch []byte) (*T, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before, err := bson.Marshal(rec)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, apperr.BadRequest("Invalid request body")
	}
	for _, f := range immutableFields {
		delete(fields, f)
	}
	clean, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(clean, rec); err != nil {
		return nil, DecodeError(err)
	}

	if err := s.prepare(rec); err != nil {
		return nil, err
	}
	ch, err := changesBetween(before, rec)
	if err != nil {
		return nil, err
	}
	if ch.Empty() {
		return rec, nil
	}
	updated, err := s.repo.Update(ctx, PT(rec).GetID(), ch)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return updated, nil
}

func (s *contentService[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	return s.mapErr(s.repo.Delete(ctx, oid))
}

func (s *contentService[T, PT]) List(ctx context.Context, params map[string]string, pq repository.PageQuery) (*repository.PageResult[T], error) {
	if err := pq.Validate(); err != nil {
		return nil, apperr.BadRequest(err.Error())
	}
	filter := repository.Filter{}
	if s.filters != nil {
		f, err := s.filters(params)
		if err != nil {
			return nil, err
		}
		filter = f
	}
	return s.repo.List(ctx, filter, pq)
}

func (s *contentService[T, PT]) FindOne(ctx context.Context, filter repository.Filter) (*T, error) {
	rec, err := s.repo.FindOne(ctx, filter)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return rec, nil
}

func (s *contentService[T, PT]) FindAll(ctx context.Context, filter repository.Filter) ([]T, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *contentService[T, PT]) mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return s.notFound
	}
	return err
}

// DecodeError converts a JSON decoding failure into a 400. Operational errors raised by
// custom unmarshalers pass through unchanged.
func DecodeError(err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.BadRequest(fmt.Sprintf("Invalid %s: expected %s", typeErr.Field, typeErr.Type))
	}
	return apperr.BadRequest("Invalid request body")
}
