package models

import "time"

const (
	BadgeBronze   = "bronze"
	BadgeSilver   = "silver"
	BadgeGold     = "gold"
	BadgePlatinum = "platinum"
)

// Achievement definitions are keyed by title; the rule engine creates them
// lazily when a rule first fires.
type Achievement struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	BadgeType   string    `bson:"badge_type,omitempty" json:"badge_type,omitempty"`
	Points      int       `bson:"points" json:"points"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// UserAchievement is the award fact, unique per (user, achievement).
type UserAchievement struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	AchievementID string    `bson:"achievement_id" json:"achievement_id"`
	Title         string    `bson:"title" json:"title"`
	EarnedAt      time.Time `bson:"earned_at" json:"earned_at"`
}
