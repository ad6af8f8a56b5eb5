package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
)

type mongoHRInfoStore struct {
	col *mongo.Collection
}

func (s *mongoHRInfoStore) GetByEmail(ctx context.Context, email string) (*models.HRInfo, error) {
	var info models.HRInfo
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&info); err != nil {
		return nil, wrapErr(err, "hr info not found")
	}
	return &info, nil
}

func (s *mongoHRInfoStore) UpdatePackage(ctx context.Context, email string, pkg string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"package": pkg}},
	)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound("hr info not found")
	}
	return nil
}
