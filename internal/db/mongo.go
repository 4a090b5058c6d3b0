package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

func InitMongo(uri string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	Client = client
}

// EnsureIndexes creates the unique indexes the engine's invariants lean on:
// one answer per (attempt, question), one enrollment per (user, course), one
// progress row per (user, lesson), one award per (user, achievement), unique
// achievement titles. Duplicate-key errors from these indexes are how
// insert-if-absent is detected.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"quiz_answers": {
			Keys:    bson.D{{Key: "attempt_id", Value: 1}, {Key: "question_id", Value: 1}},
			Options: unique,
		},
		"enrollments": {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
			Options: unique,
		},
		"lesson_progress": {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "lesson_id", Value: 1}},
			Options: unique,
		},
		"user_achievements": {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "achievement_id", Value: 1}},
			Options: unique,
		},
		"achievements": {
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: unique,
		},
	}

	for collection, model := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
