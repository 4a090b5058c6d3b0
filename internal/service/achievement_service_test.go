package service

import (
	"context"
	"testing"
	"time"

	"progress-service/internal/models"
)

func TestEvaluateCreatesDefinitionLazily(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.lessons.rows["user1|lesson1"] = &models.LessonProgress{
		UserID: "user1", LessonID: "lesson1", CourseID: "course1", Completed: true,
	}

	awarded, err := env.achievementSvc.EvaluateForUser(ctx, "user1")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(awarded) != 1 || awarded[0] != "First Steps" {
		t.Fatalf("awarded = %v, want [First Steps]", awarded)
	}

	def, ok := env.awards.defs["First Steps"]
	if !ok {
		t.Fatal("definition was not created on first award")
	}
	if def.BadgeType != models.BadgeBronze || def.Points != 10 {
		t.Fatalf("definition = %+v", def)
	}

	// The fact still holds; the award must not repeat.
	awarded, err = env.achievementSvc.EvaluateForUser(ctx, "user1")
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if len(awarded) != 0 {
		t.Fatalf("re-evaluation awarded %v", awarded)
	}
	if len(env.awards.awards) != 1 {
		t.Fatalf("stored %d awards, want 1", len(env.awards.awards))
	}
}

func TestEvaluateQuizMilestones(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	passed := true
	for i := 0; i < 5; i++ {
		score := 85.0
		at := time.Now()
		env.attempts.seq++
		env.attempts.attempts[string(rune('a'+i))] = &models.QuizAttempt{
			ID: string(rune('a' + i)), UserID: "user1", QuizID: "quiz1",
			StartedAt: at, CompletedAt: &at, Score: &score, Passed: &passed,
		}
	}

	awarded, err := env.achievementSvc.EvaluateForUser(ctx, "user1")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := map[string]bool{"Quiz Master": true, "Quiz Expert": true}
	if len(awarded) != len(want) {
		t.Fatalf("awarded = %v, want Quiz Master and Quiz Expert", awarded)
	}
	for _, title := range awarded {
		if !want[title] {
			t.Fatalf("unexpected award %q", title)
		}
	}
}

func TestDashboardSumsPoints(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.lessons.rows["user1|lesson1"] = &models.LessonProgress{
		UserID: "user1", LessonID: "lesson1", CourseID: "course1", Completed: true,
	}
	score := 100.0
	passed := true
	at := time.Now()
	env.attempts.attempts["att1"] = &models.QuizAttempt{
		ID: "att1", UserID: "user1", QuizID: "quiz1",
		StartedAt: at, CompletedAt: &at, Score: &score, Passed: &passed,
	}

	if _, err := env.achievementSvc.EvaluateForUser(ctx, "user1"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	dash, err := env.achievementSvc.Dashboard(ctx, "user1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Facts.CompletedLessonCount != 1 || dash.Facts.PassedQuizCount != 1 || !dash.Facts.HasPerfectScore {
		t.Fatalf("facts = %+v", dash.Facts)
	}
	// First Steps 10 + Quiz Master 25 + Perfect Score 100.
	if dash.AchievementPoints != 135 {
		t.Fatalf("points = %d, want 135", dash.AchievementPoints)
	}
	if len(dash.Achievements) != 3 {
		t.Fatalf("achievements = %d, want 3", len(dash.Achievements))
	}
}
