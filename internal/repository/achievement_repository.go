package repository

import (
	"context"
	"errors"
	"time"

	"progress-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AchievementRepository struct {
	Col       *mongo.Collection
	AwardsCol *mongo.Collection
}

func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		Col:       db.Collection("achievements"),
		AwardsCol: db.Collection("user_achievements"),
	}
}

// FindOrCreateByTitle lazily creates the definition, title being the natural
// key. Concurrent creators converge on one document via the unique index.
func (r *AchievementRepository) FindOrCreateByTitle(ctx context.Context, def *models.Achievement) (*models.Achievement, error) {
	filter := bson.M{"title": def.Title}
	update := bson.M{"$setOnInsert": bson.M{
		"title":       def.Title,
		"description": def.Description,
		"badge_type":  def.BadgeType,
		"points":      def.Points,
		"created_at":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Achievement
	if err := r.Col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Award inserts the (user, achievement) join fact. The unique index makes a
// repeat award a no-op: returns false, no duplicate, no error.
func (r *AchievementRepository) Award(ctx context.Context, award *models.UserAchievement) (bool, error) {
	res, err := r.AwardsCol.InsertOne(ctx, award)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		award.ID = oid.Hex()
	}
	return true, nil
}

// EarnedTitles returns the titles a user already holds, the guard set for
// rule evaluation.
func (r *AchievementRepository) EarnedTitles(ctx context.Context, userID string) (map[string]bool, error) {
	cur, err := r.AwardsCol.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	earned := make(map[string]bool)
	for cur.Next(ctx) {
		var ua models.UserAchievement
		if err := cur.Decode(&ua); err != nil {
			return nil, err
		}
		earned[ua.Title] = true
	}
	return earned, cur.Err()
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	cur, err := r.AwardsCol.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "earned_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var awards []models.UserAchievement
	for cur.Next(ctx) {
		var ua models.UserAchievement
		if err := cur.Decode(&ua); err != nil {
			return nil, err
		}
		awards = append(awards, ua)
	}
	return awards, cur.Err()
}

func (r *AchievementRepository) ListDefinitions(ctx context.Context) ([]models.Achievement, error) {
	cur, err := r.Col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "points", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var defs []models.Achievement
	for cur.Next(ctx) {
		var a models.Achievement
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		defs = append(defs, a)
	}
	return defs, cur.Err()
}

func (r *AchievementRepository) FindDefinitionByID(ctx context.Context, id string) (*models.Achievement, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var def models.Achievement
	findErr := r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&def)
	if errors.Is(findErr, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if findErr != nil {
		return nil, findErr
	}
	return &def, nil
}
