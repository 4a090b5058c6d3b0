// Package achievement evaluates a fixed rule set against a user's
// accumulated learning facts. Evaluation is pure; the service layer turns
// matched rules into award documents.
package achievement

import "progress-service/internal/models"

// Facts is the snapshot of derived counts the rules run against.
type Facts struct {
	CompletedLessonCount int  `json:"completed_lesson_count"`
	PassedQuizCount      int  `json:"passed_quiz_count"`
	HasPerfectScore      bool `json:"has_perfect_score"`
}

// Rule pairs an achievement definition with its predicate. Titles are the
// natural key for the definitions collection.
type Rule struct {
	Title       string
	Description string
	BadgeType   string
	Points      int
	Match       func(Facts) bool
}

// Rules is the full rule table. Milestone rules match on exact counts: a
// count that jumps past a milestone in one batch skips that award. Callers
// here only ever advance counts one toggle or one completion at a time.
var Rules = []Rule{
	{
		Title:       "First Steps",
		Description: "Complete your first lesson",
		BadgeType:   models.BadgeBronze,
		Points:      10,
		Match:       func(f Facts) bool { return f.CompletedLessonCount >= 1 },
	},
	{
		Title:       "Quiz Master",
		Description: "Pass your first quiz",
		BadgeType:   models.BadgeSilver,
		Points:      25,
		Match:       func(f Facts) bool { return f.PassedQuizCount >= 1 },
	},
	{
		Title:       "Perfect Score",
		Description: "Score 100% on a quiz",
		BadgeType:   models.BadgeGold,
		Points:      100,
		Match:       func(f Facts) bool { return f.HasPerfectScore },
	},
	{
		Title:       "Lesson Warrior",
		Description: "Complete 10 lessons",
		BadgeType:   models.BadgeBronze,
		Points:      50,
		Match:       func(f Facts) bool { return f.CompletedLessonCount == 10 },
	},
	{
		Title:       "Knowledge Seeker",
		Description: "Complete 25 lessons",
		BadgeType:   models.BadgeSilver,
		Points:      100,
		Match:       func(f Facts) bool { return f.CompletedLessonCount == 25 },
	},
	{
		Title:       "Master Learner",
		Description: "Complete 50 lessons",
		BadgeType:   models.BadgeGold,
		Points:      250,
		Match:       func(f Facts) bool { return f.CompletedLessonCount == 50 },
	},
	{
		Title:       "Quiz Expert",
		Description: "Pass 5 quizzes",
		BadgeType:   models.BadgeBronze,
		Points:      75,
		Match:       func(f Facts) bool { return f.PassedQuizCount == 5 },
	},
	{
		Title:       "Theory Champion",
		Description: "Pass 10 quizzes",
		BadgeType:   models.BadgeSilver,
		Points:      150,
		Match:       func(f Facts) bool { return f.PassedQuizCount == 10 },
	},
	{
		Title:       "Grand Master",
		Description: "Pass 25 quizzes",
		BadgeType:   models.BadgePlatinum,
		Points:      500,
		Match:       func(f Facts) bool { return f.PassedQuizCount == 25 },
	},
}

// Evaluate returns the rules that match the facts and are not yet held.
// Running it again with unchanged facts and the updated earned set yields
// nothing, which is what makes awarding idempotent.
func Evaluate(facts Facts, earned map[string]bool) []Rule {
	var matched []Rule
	for _, rule := range Rules {
		if earned[rule.Title] {
			continue
		}
		if rule.Match(facts) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// Definition materializes the rule's achievement document, used when the
// definition is missing from storage.
func (r Rule) Definition() *models.Achievement {
	return &models.Achievement{
		Title:       r.Title,
		Description: r.Description,
		BadgeType:   r.BadgeType,
		Points:      r.Points,
	}
}
