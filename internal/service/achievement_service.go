package service

import (
	"context"
	"fmt"
	"time"

	"progress-service/internal/achievement"
	"progress-service/internal/event"
	"progress-service/internal/models"
)

type AchievementStore interface {
	FindOrCreateByTitle(ctx context.Context, def *models.Achievement) (*models.Achievement, error)
	Award(ctx context.Context, award *models.UserAchievement) (bool, error)
	EarnedTitles(ctx context.Context, userID string) (map[string]bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error)
	ListDefinitions(ctx context.Context) ([]models.Achievement, error)
}

type LessonFactStore interface {
	CountCompletedByUser(ctx context.Context, userID string) (int, error)
}

type QuizFactStore interface {
	CountPassedByUser(ctx context.Context, userID string) (int, error)
	HasPerfectScore(ctx context.Context, userID string) (bool, error)
}

type AchievementService struct {
	Achievements AchievementStore
	LessonFacts  LessonFactStore
	QuizFacts    QuizFactStore
	Publisher    *event.EventPublisher
}

func NewAchievementService(achievements AchievementStore, lessonFacts LessonFactStore, quizFacts QuizFactStore, publisher *event.EventPublisher) *AchievementService {
	return &AchievementService{
		Achievements: achievements,
		LessonFacts:  lessonFacts,
		QuizFacts:    quizFacts,
		Publisher:    publisher,
	}
}

// CollectFacts gathers the fresh fact snapshot the rules run against.
func (s *AchievementService) CollectFacts(ctx context.Context, userID string) (achievement.Facts, error) {
	var facts achievement.Facts

	lessons, err := s.LessonFacts.CountCompletedByUser(ctx, userID)
	if err != nil {
		return facts, fmt.Errorf("count completed lessons: %w", err)
	}
	passed, err := s.QuizFacts.CountPassedByUser(ctx, userID)
	if err != nil {
		return facts, fmt.Errorf("count passed quizzes: %w", err)
	}
	perfect, err := s.QuizFacts.HasPerfectScore(ctx, userID)
	if err != nil {
		return facts, fmt.Errorf("check perfect score: %w", err)
	}

	facts.CompletedLessonCount = lessons
	facts.PassedQuizCount = passed
	facts.HasPerfectScore = perfect
	return facts, nil
}

// EvaluateForUser runs the full rule set against fresh facts and awards
// whatever newly matches. Definitions are created lazily; the award insert is
// duplicate-tolerant, so a concurrent evaluation for the same user cannot
// double-award. Returns the newly awarded titles.
func (s *AchievementService) EvaluateForUser(ctx context.Context, userID string) ([]string, error) {
	facts, err := s.CollectFacts(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.Achievements.EarnedTitles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load earned titles: %w", err)
	}

	var awarded []string
	for _, rule := range achievement.Evaluate(facts, earned) {
		def, err := s.Achievements.FindOrCreateByTitle(ctx, rule.Definition())
		if err != nil {
			return awarded, fmt.Errorf("ensure achievement %q: %w", rule.Title, err)
		}

		inserted, err := s.Achievements.Award(ctx, &models.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			Title:         def.Title,
			EarnedAt:      time.Now(),
		})
		if err != nil {
			return awarded, fmt.Errorf("award achievement %q: %w", rule.Title, err)
		}
		if !inserted {
			continue
		}

		awarded = append(awarded, def.Title)
		s.Publisher.Publish("achievement.awarded", map[string]interface{}{
			"user_id":    userID,
			"title":      def.Title,
			"badge_type": def.BadgeType,
			"points":     def.Points,
		})
	}
	return awarded, nil
}

func (s *AchievementService) ListUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	return s.Achievements.ListByUser(ctx, userID)
}

func (s *AchievementService) ListDefinitions(ctx context.Context) ([]models.Achievement, error) {
	return s.Achievements.ListDefinitions(ctx)
}

// DashboardSummary is the simple-counts view for the user dashboard.
type DashboardSummary struct {
	Facts             achievement.Facts        `json:"facts"`
	Achievements      []models.UserAchievement `json:"achievements"`
	AchievementPoints int                      `json:"achievement_points"`
}

func (s *AchievementService) Dashboard(ctx context.Context, userID string) (*DashboardSummary, error) {
	facts, err := s.CollectFacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	awards, err := s.Achievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	points := 0
	rulePoints := make(map[string]int, len(achievement.Rules))
	for _, rule := range achievement.Rules {
		rulePoints[rule.Title] = rule.Points
	}
	for _, award := range awards {
		points += rulePoints[award.Title]
	}

	return &DashboardSummary{
		Facts:             facts,
		Achievements:      awards,
		AchievementPoints: points,
	}, nil
}
