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

// ErrDuplicate marks an insert rejected by a unique index.
var ErrDuplicate = errors.New("duplicate document")

type EnrollmentRepository struct {
	Col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{Col: db.Collection("enrollments")}
}

// Create inserts the enrollment; the (user, course) unique index turns a
// duplicate enrollment into ErrDuplicate with no row written.
func (r *EnrollmentRepository) Create(ctx context.Context, enr *models.Enrollment) error {
	res, err := r.Col.InsertOne(ctx, enr)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		enr.ID = oid.Hex()
	}
	return nil
}

func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	var enr models.Enrollment
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&enr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enr, nil
}

func (r *EnrollmentRepository) FindByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	cur, err := r.Col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "enrolled_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var enrollments []models.Enrollment
	for cur.Next(ctx) {
		var e models.Enrollment
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, cur.Err()
}

// ApplyProgress commits a recompute mutation. completed_at is written only
// on the one-way transition.
func (r *EnrollmentRepository) ApplyProgress(ctx context.Context, id string, progress float64, status string, completedAt *time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	set := bson.M{"progress": progress, "status": status}
	if completedAt != nil {
		set["completed_at"] = *completedAt
	}
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
	return err
}
