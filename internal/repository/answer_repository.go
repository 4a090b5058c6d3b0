package repository

import (
	"context"

	"progress-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnswerRepository struct {
	Col *mongo.Collection
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{Col: db.Collection("quiz_answers")}
}

// Upsert writes the answer keyed by (attempt, question); a resubmission
// replaces the prior document in place, backed by the unique index.
func (r *AnswerRepository) Upsert(ctx context.Context, answer *models.QuizAnswer) error {
	filter := bson.M{"attempt_id": answer.AttemptID, "question_id": answer.QuestionID}
	_, err := r.Col.ReplaceOne(ctx, filter, answer, options.Replace().SetUpsert(true))
	return err
}

func (r *AnswerRepository) FindByAttempt(ctx context.Context, attemptID string) ([]models.QuizAnswer, error) {
	cur, err := r.Col.Find(ctx, bson.M{"attempt_id": attemptID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var answers []models.QuizAnswer
	for cur.Next(ctx) {
		var a models.QuizAnswer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, cur.Err()
}
