package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/defilabs-io/wallet-scoring-service/internal/db/model"
)

func (db *Database) SaveWalletScore(ctx context.Context, doc *model.WalletScoreDocument) error {
	filter := bson.M{"_id": doc.WalletAddress}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.WalletScoreCollection).
		UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetWalletScore(ctx context.Context, walletAddress string) (*model.WalletScoreDocument, error) {
	filter := bson.M{"_id": walletAddress}
	res := db.collection(model.WalletScoreCollection).
		FindOne(ctx, filter)

	var doc model.WalletScoreDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     walletAddress,
				Message: "wallet score not found",
			}
		}
		return nil, err
	}
	return &doc, nil
}

func (db *Database) GetLatestScores(ctx context.Context, limit int64) ([]model.WalletScoreDocument, error) {
	opts := options.Find().
		SetSort(bson.M{"updated_at": -1}).
		SetLimit(limit)

	cursor, err := db.collection(model.WalletScoreCollection).
		Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []model.WalletScoreDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
