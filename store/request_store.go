package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shahriakhansejan/core-bits-server/errs"
	"github.com/shahriakhansejan/core-bits-server/models"
)

type mongoRequestStore struct {
	col *mongo.Collection
}

func (s *mongoRequestStore) Insert(ctx context.Context, req *models.Request) error {
	res, err := s.col.InsertOne(ctx, req)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid
	}
	return nil
}

func (s *mongoRequestStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var req models.Request
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, wrapErr(err, "request not found")
	}
	return &req, nil
}

func (s *mongoRequestStore) List(ctx context.Context, filter RequestFilter) ([]models.Request, error) {
	query := bson.M{}
	if filter.HREmail != "" {
		query["hrEmail"] = filter.HREmail
	}
	if filter.RequesterEmail != "" {
		query["requesterEmail"] = filter.RequesterEmail
	}
	if filter.SearchRequester != "" {
		query["requesterName"] = bson.M{"$regex": filter.SearchRequester, "$options": "i"}
	}
	if filter.SearchAsset != "" {
		query["assetName"] = bson.M{"$regex": filter.SearchAsset, "$options": "i"}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["assetType"] = filter.Type
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var requests []models.Request
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return requests, nil
}

func (s *mongoRequestStore) CountByAsset(ctx context.Context, assetID primitive.ObjectID) (int64, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{"assetId": assetID})
	if err != nil {
		return 0, errs.NewStoreUnavailable(err)
	}
	return count, nil
}

func (s *mongoRequestStore) CountOpenByAsset(ctx context.Context, assetID primitive.ObjectID) (int64, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{
		"assetId": assetID,
		"status":  bson.M{"$in": []string{models.StatusPending, models.StatusApproved}},
	})
	if err != nil {
		return 0, errs.NewStoreUnavailable(err)
	}
	return count, nil
}

func (s *mongoRequestStore) MarkApproved(ctx context.Context, id primitive.ObjectID, approveDate time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": models.StatusApproved, "approveDate": approveDate}},
	)
	if err != nil {
		return false, errs.NewStoreUnavailable(err)
	}
	return res.MatchedCount == 1, nil
}

// RevertApproved is the compensating update when the paired quantity
// decrement cannot be applied.
func (s *mongoRequestStore) RevertApproved(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusApproved},
		bson.M{"$set": bson.M{"status": models.StatusPending}, "$unset": bson.M{"approveDate": ""}},
	)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	return nil
}

func (s *mongoRequestStore) MarkReturned(ctx context.Context, id primitive.ObjectID, returnDate time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusApproved},
		bson.M{"$set": bson.M{"status": models.StatusReturned, "returnDate": returnDate}},
	)
	if err != nil {
		return false, errs.NewStoreUnavailable(err)
	}
	return res.MatchedCount == 1, nil
}

func (s *mongoRequestStore) RevertReturned(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusReturned},
		bson.M{"$set": bson.M{"status": models.StatusApproved}, "$unset": bson.M{"returnDate": ""}},
	)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	return nil
}

// DeletePending removes the record only while it is still pending; reject
// and withdraw both go through here so a concurrently approved request is
// never deleted.
func (s *mongoRequestStore) DeletePending(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "status": models.StatusPending})
	if err != nil {
		return false, errs.NewStoreUnavailable(err)
	}
	return res.DeletedCount == 1, nil
}
