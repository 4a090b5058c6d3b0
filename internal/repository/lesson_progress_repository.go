package repository

import (
	"context"
	"errors"
	"time"

	"progress-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LessonProgressRepository struct {
	Col *mongo.Collection
}

func NewLessonProgressRepository(db *mongo.Database) *LessonProgressRepository {
	return &LessonProgressRepository{Col: db.Collection("lesson_progress")}
}

// SeedZero creates an incomplete progress row for every lesson so later
// completion toggles have a row to flip. Existing rows are left untouched.
func (r *LessonProgressRepository) SeedZero(ctx context.Context, userID, courseID string, lessonIDs []string) error {
	for _, lessonID := range lessonIDs {
		filter := bson.M{"user_id": userID, "lesson_id": lessonID}
		update := bson.M{"$setOnInsert": bson.M{
			"user_id":            userID,
			"lesson_id":          lessonID,
			"course_id":          courseID,
			"completed":          false,
			"time_spent_minutes": 0,
		}}
		if _, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

// SetCompleted flips the completion flag, creating the row if the lesson was
// added to the course after enrollment. Returns the updated fact.
func (r *LessonProgressRepository) SetCompleted(ctx context.Context, userID, lessonID, courseID string, completed bool, now time.Time) (*models.LessonProgress, error) {
	filter := bson.M{"user_id": userID, "lesson_id": lessonID}
	set := bson.M{"completed": completed, "course_id": courseID}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"user_id":            userID,
			"lesson_id":          lessonID,
			"time_spent_minutes": 0,
		},
	}
	if completed {
		set["completed_at"] = now
	} else {
		update["$unset"] = bson.M{"completed_at": ""}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var lp models.LessonProgress
	if err := r.Col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&lp); err != nil {
		return nil, err
	}
	return &lp, nil
}

func (r *LessonProgressRepository) AddTime(ctx context.Context, userID, lessonID string, minutes int) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"user_id": userID, "lesson_id": lessonID},
		bson.M{"$inc": bson.M{"time_spent_minutes": minutes}},
	)
	return err
}

func (r *LessonProgressRepository) CountCompletedByUserAndCourse(ctx context.Context, userID, courseID string) (int, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "course_id": courseID, "completed": true})
	return int(count), err
}

func (r *LessonProgressRepository) CountCompletedByUser(ctx context.Context, userID string) (int, error) {
	count, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "completed": true})
	return int(count), err
}

func (r *LessonProgressRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) ([]models.LessonProgress, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var facts []models.LessonProgress
	for cur.Next(ctx) {
		var lp models.LessonProgress
		if err := cur.Decode(&lp); err != nil {
			return nil, err
		}
		facts = append(facts, lp)
	}
	return facts, cur.Err()
}

func (r *LessonProgressRepository) FindByUserAndLesson(ctx context.Context, userID, lessonID string) (*models.LessonProgress, error) {
	var lp models.LessonProgress
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "lesson_id": lessonID}).Decode(&lp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lp, nil
}
