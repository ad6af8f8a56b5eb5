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

type mongoAssetStore struct {
	col *mongo.Collection
}

func (s *mongoAssetStore) Insert(ctx context.Context, asset *models.Asset) error {
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, asset)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		asset.ID = oid
	}
	return nil
}

func (s *mongoAssetStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var asset models.Asset
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&asset); err != nil {
		return nil, wrapErr(err, "asset not found")
	}
	return &asset, nil
}

func (s *mongoAssetStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Asset, error) {
	if len(ids) == 0 {
		return []models.Asset{}, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err = cursor.All(ctx, &assets); err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// List pushes every expressible predicate into the Mongo query and returns
// results newest-first by record id.
func (s *mongoAssetStore) List(ctx context.Context, filter AssetFilter) ([]models.Asset, error) {
	query := bson.M{"hrEmail": filter.HREmail}

	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}
	switch filter.Status {
	case "available":
		query["quantity"] = bson.M{"$gt": 0}
	case "out-of-stock":
		query["quantity"] = bson.M{"$lte": 0}
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err = cursor.All(ctx, &assets); err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

func (s *mongoAssetStore) ListLimitedStock(ctx context.Context, hrEmail string, threshold int) ([]models.Asset, error) {
	query := bson.M{"hrEmail": hrEmail, "quantity": bson.M{"$lt": threshold}}

	cursor, err := s.col.Find(ctx, query)
	if err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err = cursor.All(ctx, &assets); err != nil {
		return nil, errs.NewStoreUnavailable(err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

func (s *mongoAssetStore) Update(ctx context.Context, asset *models.Asset) error {
	update := bson.M{"$set": bson.M{
		"name":      asset.Name,
		"type":      asset.Type,
		"quantity":  asset.Quantity,
		"img":       asset.Image,
		"updatedAt": time.Now().UTC(),
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": asset.ID}, update)
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return errs.NewNotFound("asset not found")
	}
	return nil
}

func (s *mongoAssetStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.NewStoreUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return errs.NewNotFound("asset not found")
	}
	return nil
}

func (s *mongoAssetStore) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (bool, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		// Guard against lost updates: the decrement only matches while
		// enough stock remains, server-side, in a single document update.
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, errs.NewStoreUnavailable(err)
	}
	return res.MatchedCount == 1, nil
}
