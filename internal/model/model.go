// Package model contains the persisted records of the content API.
//
// Content records live in MongoDB and share Base for identity and timestamps.
// Struct tags carry three concerns side by side: json for the HTTP surface,
// bson for storage and validate for the rules enforced before every write.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is implemented by every Mongo-backed model through Base.
type Record interface {
	GetID() primitive.ObjectID
	SetID(id primitive.ObjectID)
	Touch(now time.Time)
}

// RecordPtr constrains a type parameter to pointers of T that implement Record.
type RecordPtr[T any] interface {
	*T
	Record
}

// Normalizer is implemented by records that clean up their fields before validation.
type Normalizer interface {
	Normalize()
}

// Base carries the document id and timestamps.
type Base struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID   { return b.ID }
func (b *Base) SetID(id primitive.ObjectID) { b.ID = id }

// Touch stamps UpdatedAt and, on first write, CreatedAt.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Collection names.
const (
	CollectionJobs         = "jobdescriptions"
	CollectionScholarships = "scholarships"
	CollectionBlogs        = "blogs"
	CollectionNews         = "news"
	CollectionTechnical    = "technicals"
	CollectionOthers       = "others"
	CollectionPageContents = "pagecontents"
	CollectionAdmissions   = "admissions"
	CollectionUsers        = "users"
)
