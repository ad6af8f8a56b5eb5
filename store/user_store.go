package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
)

type mongoUserStore struct {
	col *mongo.Collection
}

func (s *mongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, wrapErr(err, "user not found")
	}
	return &user, nil
}

func (s *mongoUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, wrapErr(err, "user not found")
	}
	return &user, nil
}

func (s *mongoUserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return s.list(ctx, bson.M{"role": role})
}

func (s *mongoUserStore) ListByHR(ctx context.Context, hrEmail string) ([]models.User, error) {
	return s.list(ctx, bson.M{"hrEmail": hrEmail})
}

func (s *mongoUserStore) list(ctx context.Context, query bson.M) ([]models.User, error) {
	cursor, err := s.col.Find(ctx, query)
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *mongoUserStore) UpdateRole(ctx context.Context, id primitive.ObjectID, role, hrEmail string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "hrEmail": hrEmail}},
	)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound("user not found")
	}
	return nil
}
