package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"semantiapi/internal/model"
	"semantiapi/internal/repository"
)

func newBlogRepo(mt *mtest.T) *Repository[model.Blog, *model.Blog] {
	r := New[model.Blog](mt.Coll)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and timestamps", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		blog := &model.Blog{Title: "Hello"}
		err := repo.Create(context.Background(), blog)

		require.NoError(mt, err)
		assert.False(mt, blog.ID.IsZero())
		assert.Equal(mt, 2024, blog.CreatedAt.Year())
		assert.Equal(mt, blog.CreatedAt, blog.UpdatedAt)
	})

	mt.Run("duplicate key", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: semantiai.blogs index: title_1 dup key: { title: \"Hello\" }",
		}))

		err := repo.Create(context.Background(), &model.Blog{Title: "Hello"})

		require.Error(mt, err)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Go generics"},
			{Key: "sentiment", Value: "positive"},
		}))

		got, err := repo.FindByID(context.Background(), id)

		require.NoError(mt, err)
		assert.Equal(mt, id, got.ID)
		assert.Equal(mt, "Go generics", got.Title)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch))

		got, err := repo.FindByID(context.Background(), id)

		assert.ErrorIs(mt, err, repository.ErrNotFound)
		assert.Nil(mt, got)
	})
}

func TestRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("page with total", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "a"}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "b"}},
			),
		)

		res, err := repo.List(context.Background(), bson.M{"sentiment": "positive"}, repository.PageQuery{Limit: 2, Page: 3})

		require.NoError(mt, err)
		assert.Len(mt, res.Results, 2)
		assert.Equal(mt, 12, res.TotalResults)
		assert.Equal(mt, 6, res.TotalPages)
		assert.Equal(mt, 3, res.Page)
		assert.Equal(mt, 2, res.Limit)
	})

	mt.Run("empty", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch),
		)

		res, err := repo.List(context.Background(), nil, repository.PageQuery{})

		require.NoError(mt, err)
		assert.Empty(mt, res.Results)
		assert.Equal(mt, 0, res.TotalResults)
		assert.Equal(mt, 10, res.Limit)
	})
}

func TestRepository_FindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("all matches", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "semantiai.blogs", mtest.FirstBatch,
			bson.D{{Key: "title", Value: "a"}},
			bson.D{{Key: "title", Value: "b"}},
			bson.D{{Key: "title", Value: "c"}},
		))

		items, err := repo.FindAll(context.Background(), bson.M{})

		require.NoError(mt, err)
		assert.Len(mt, items, 3)
	})
}

func TestRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets only the changed fields", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "updated"},
			{Key: "summary", Value: "kept"},
		}}))

		got, err := repo.Update(context.Background(), id, repository.Changes{
			Set:   bson.M{"title": "updated"},
			Unset: []string{"author"},
		})

		require.NoError(mt, err)
		assert.Equal(mt, "updated", got.Title)
		assert.Equal(mt, "kept", got.Summary)

		cmd := mt.GetStartedEvent().Command
		update := cmd.Lookup("update").Document()
		set := update.Lookup("$set").Document()
		assert.Equal(mt, "updated", set.Lookup("title").StringValue())
		assert.Equal(mt, 2024, set.Lookup("updatedAt").Time().Year())
		_, err = set.LookupErr("summary")
		assert.Error(mt, err, "untouched fields must not be written")
		_, err = update.Lookup("$unset").Document().LookupErr("author")
		assert.NoError(mt, err)
	})

	mt.Run("unknown id", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Update(context.Background(), primitive.NewObjectID(), repository.Changes{Set: bson.M{"title": "x"}})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := newBlogRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.ErrorIs(mt, repo.Delete(context.Background(), primitive.NewObjectID()), repository.ErrNotFound)
	})
}
