package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"semantiapi/internal/model"
	"semantiapi/internal/repository"
)

// staleReadRepo serves every read from a fixed snapshot while applying updates to the
// stored document the way Mongo applies $set and $unset.
type staleReadRepo struct {
	repository.ContentRepository[model.PageContent]
	snapshot bson.Raw
	doc      bson.M
}

func newStaleReadRepo(t *testing.T, p *model.PageContent) *staleReadRepo {
	raw, err := bson.Marshal(p)
	require.NoError(t, err)
	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return &staleReadRepo{snapshot: raw, doc: doc}
}

func (r *staleReadRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*model.PageContent, error) {
	var p model.PageContent
	if err := bson.Unmarshal(r.snapshot, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *staleReadRepo) Update(_ context.Context, _ primitive.ObjectID, ch repository.Changes) (*model.PageContent, error) {
	for path, v := range ch.Set {
		parent, key := walk(r.doc, path)
		parent[key] = v
	}
	for _, path := range ch.Unset {
		parent, key := walk(r.doc, path)
		delete(parent, key)
	}
	return r.stored()
}

func (r *staleReadRepo) stored() (*model.PageContent, error) {
	raw, err := bson.Marshal(r.doc)
	if err != nil {
		return nil, err
	}
	var p model.PageContent
	if err := bson.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func walk(doc bson.M, path string) (bson.M, string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		child := asDoc(doc[p])
		doc[p] = child
		doc = child
	}
	return doc, parts[len(parts)-1]
}

func asDoc(v any) bson.M {
	switch t := v.(type) {
	case bson.M:
		return t
	case map[string]any:
		return bson.M(t)
	case primitive.D:
		m := bson.M{}
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return m
	case bson.RawValue:
		var m bson.M
		if err := t.Unmarshal(&m); err == nil && m != nil {
			return m
		}
	}
	return bson.M{}
}

func TestContentService_UpdateKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	page := &model.PageContent{
		Title:    "old",
		Text:     "body",
		URL:      "https://example.com/a",
		Metadata: map[string]any{"lang": "en"},
	}
	page.ID = primitive.NewObjectID()
	page.Normalize()

	repo := newStaleReadRepo(t, page)
	svc := NewContentService[model.PageContent](repo, NewValidator(), "Page content", nil)

	// Both updates read the same snapshot; the title write lands first.
	_, err := svc.Update(ctx, page.ID.Hex(), []byte(`{"title":"new"}`))
	require.NoError(t, err)
	got, err := svc.Update(ctx, page.ID.Hex(), []byte(`{"status":"analyzed","metadata":{"category":"job"}}`))
	require.NoError(t, err)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, model.PageStatusAnalyzed, got.Status)
	assert.Equal(t, "en", got.Metadata["lang"])
	assert.Equal(t, "job", got.Metadata["category"])
	assert.Equal(t, "body", got.Text)
}

func TestChangesBetween(t *testing.T) {
	base := func() *model.PageContent {
		p := &model.PageContent{
			Title:    "t",
			Text:     "x",
			URL:      "https://example.com",
			Metadata: map[string]any{"lang": "en", "a.b": 1},
		}
		p.ID = primitive.NewObjectID()
		p.Normalize()
		return p
	}

	t.Run("scalar change", func(t *testing.T) {
		p := base()
		before, err := bson.Marshal(p)
		require.NoError(t, err)
		p.Status = model.PageStatusFailed
		p.UpdatedAt = p.UpdatedAt.AddDate(1, 0, 0)

		ch, err := changesBetween(before, p)

		require.NoError(t, err)
		assert.Len(t, ch.Set, 1)
		assert.Contains(t, ch.Set, "status")
		assert.Empty(t, ch.Unset)
	})

	t.Run("map with dotted key is set whole", func(t *testing.T) {
		p := base()
		before, err := bson.Marshal(p)
		require.NoError(t, err)
		p.Metadata["lang"] = "de"

		ch, err := changesBetween(before, p)

		require.NoError(t, err)
		assert.Contains(t, ch.Set, "metadata")
		assert.NotContains(t, ch.Set, "metadata.lang")
	})

	t.Run("removed map key and emptied field", func(t *testing.T) {
		p := base()
		delete(p.Metadata, "a.b")
		before, err := bson.Marshal(p)
		require.NoError(t, err)
		delete(p.Metadata, "lang")
		p.Metadata["topic"] = "go"
		p.BaseURL = ""

		ch, err := changesBetween(before, p)

		require.NoError(t, err)
		assert.Contains(t, ch.Set, "metadata.topic")
		assert.Equal(t, []string{"baseurl", "metadata.lang"}, ch.Unset)
	})

	t.Run("no change", func(t *testing.T) {
		p := base()
		before, err := bson.Marshal(p)
		require.NoError(t, err)

		ch, err := changesBetween(before, p)

		require.NoError(t, err)
		assert.True(t, ch.Empty())
	})
}
