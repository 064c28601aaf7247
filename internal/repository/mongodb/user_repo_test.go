package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/swapdeal/swapdeal-api/internal/models"
	pkgerrors "github.com/swapdeal/swapdeal-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepositoryGetByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "swapdealDB.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Alice"},
			{Key: "email", Value: "alice@x.com"},
			{Key: "role", Value: "seller"},
			{Key: "status", Value: "verified"},
			{Key: "created_at", Value: primitive.NewDateTimeFromTime(time.Now())},
		}))

		user, err := repo.GetByEmail(context.Background(), "alice@x.com")
		assert.NoError(t, err)
		assert.Equal(t, id.Hex(), user.ID)
		assert.Equal(t, "alice@x.com", user.Email)
		assert.Equal(t, models.RoleSeller, user.Role)
		assert.Equal(t, models.StatusVerified, user.Status)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "swapdealDB.users", mtest.FirstBatch))

		user, err := repo.GetByEmail(context.Background(), "nobody@x.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	})
}

func TestUserRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts with generated id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(context.Background(), &models.User{
			Name:   "Alice",
			Email:  "alice@x.com",
			Role:   models.RoleBuyer,
			Status: models.StatusUnverified,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	mt.Run("duplicate email maps to sentinel error", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: swapdealDB.users index: email_1",
		}))

		_, err := repo.Create(context.Background(), &models.User{
			Email: "alice@x.com",
			Role:  models.RoleBuyer,
		})
		assert.ErrorIs(t, err, pkgerrors.ErrUserAlreadyExists)
	})
}

func TestUserRepositorySetVerified(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()

		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "name", Value: "Bob"},
				{Key: "email", Value: "bob@x.com"},
				{Key: "role", Value: "seller"},
				{Key: "status", Value: "verified"},
				{Key: "created_at", Value: primitive.NewDateTimeFromTime(time.Now())},
			}},
		})

		user, err := repo.SetVerified(context.Background(), id.Hex())
		assert.NoError(t, err)
		assert.Equal(t, models.StatusVerified, user.Status)
		assert.Equal(t, "bob@x.com", user.Email)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		_, err := repo.SetVerified(context.Background(), "not-an-object-id")
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	})
}
