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

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("quiz_attempts")}
}

func (r *AttemptRepository) Create(ctx context.Context, att *models.QuizAttempt) error {
	res, err := r.Col.InsertOne(ctx, att)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		att.ID = oid.Hex()
	}
	return nil
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.QuizAttempt, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var att models.QuizAttempt
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&att)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *AttemptRepository) FindByUserAndQuiz(ctx context.Context, userID, quizID string) ([]models.QuizAttempt, error) {
	cur, err := r.Col.Find(ctx,
		bson.M{"user_id": userID, "quiz_id": quizID},
		options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.QuizAttempt
	for cur.Next(ctx) {
		var a models.QuizAttempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, cur.Err()
}

func (r *AttemptRepository) CountByUserAndQuiz(ctx context.Context, userID, quizID string) (int, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "quiz_id": quizID})
	return int(count), err
}

// Complete writes the completion mutation. The completed_at guard keeps a
// racing double completion from rewriting the first result.
func (r *AttemptRepository) Complete(ctx context.Context, id string, score float64, passed bool, completedAt time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Col.UpdateOne(ctx,
		bson.M{"_id": objID, "completed_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{
			"score":        score,
			"passed":       passed,
			"completed_at": completedAt,
		}},
	)
	return err
}

func (r *AttemptRepository) CountPassedByUser(ctx context.Context, userID string) (int, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "passed": true})
	return int(count), err
}

func (r *AttemptRepository) HasPerfectScore(ctx context.Context, userID string) (bool, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "score": bson.M{"$gte": 100}})
	return count > 0, err
}

// AverageScoreByQuiz aggregates completed attempts only. A quiz with no
// completed attempts averages 0.
func (r *AttemptRepository) AverageScoreByQuiz(ctx context.Context, quizID string) (float64, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"quiz_id": quizID, "completed_at": bson.M{"$exists": true}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$score"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	var result struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&result); err != nil {
			return 0, 0, err
		}
	}
	return result.Avg, result.Count, cur.Err()
}
