package achievement

import "testing"

func titles(rules []Rule) map[string]bool {
	out := make(map[string]bool, len(rules))
	for _, r := range rules {
		out[r.Title] = true
	}
	return out
}

func TestThresholdRules(t *testing.T) {
	testCases := []struct {
		name     string
		facts    Facts
		expected []string
	}{
		{"no activity", Facts{}, nil},
		{"first lesson", Facts{CompletedLessonCount: 1}, []string{"First Steps"}},
		{"first passed quiz", Facts{PassedQuizCount: 1}, []string{"Quiz Master"}},
		{"perfect score", Facts{HasPerfectScore: true}, []string{"Perfect Score"}},
		{
			"first quiz with perfect score",
			Facts{PassedQuizCount: 1, HasPerfectScore: true},
			[]string{"Quiz Master", "Perfect Score"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.facts, nil)
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected %d rules, got %d", len(tc.expected), len(got))
			}
			gotTitles := titles(got)
			for _, want := range tc.expected {
				if !gotTitles[want] {
					t.Errorf("Expected rule %q to match", want)
				}
			}
		})
	}
}

func TestMilestonesMatchExactCounts(t *testing.T) {
	// Exactly 10 lessons fires the milestone (First Steps already held).
	earned := map[string]bool{"First Steps": true}

	got := Evaluate(Facts{CompletedLessonCount: 10}, earned)
	if len(got) != 1 || got[0].Title != "Lesson Warrior" {
		t.Fatalf("Expected only Lesson Warrior at exactly 10, got %v", titles(got))
	}
	if got[0].BadgeType != "bronze" || got[0].Points != 50 {
		t.Errorf("Lesson Warrior should be bronze/50, got %s/%d", got[0].BadgeType, got[0].Points)
	}

	// At 11 the milestone no longer matches; nothing new fires.
	earned["Lesson Warrior"] = true
	if got := Evaluate(Facts{CompletedLessonCount: 11}, earned); len(got) != 0 {
		t.Errorf("Expected nothing at 11 lessons, got %v", titles(got))
	}
}

func TestQuizExpertAwardedOnce(t *testing.T) {
	earned := map[string]bool{"Quiz Master": true}
	facts := Facts{PassedQuizCount: 5}

	got := Evaluate(facts, earned)
	if len(got) != 1 || got[0].Title != "Quiz Expert" {
		t.Fatalf("Expected Quiz Expert at 5 passed quizzes, got %v", titles(got))
	}
	if got[0].Points != 75 {
		t.Errorf("Expected 75 points, got %d", got[0].Points)
	}

	// Re-evaluating with unchanged facts awards nothing further.
	earned["Quiz Expert"] = true
	if got := Evaluate(facts, earned); len(got) != 0 {
		t.Errorf("Expected idempotent re-evaluation, got %v", titles(got))
	}
}

func TestAllQuizMilestones(t *testing.T) {
	testCases := []struct {
		count    int
		expected string
	}{
		{5, "Quiz Expert"},
		{10, "Theory Champion"},
		{25, "Grand Master"},
	}

	for _, tc := range testCases {
		earned := map[string]bool{"Quiz Master": true}
		got := Evaluate(Facts{PassedQuizCount: tc.count}, earned)
		if len(got) != 1 || got[0].Title != tc.expected {
			t.Errorf("At %d passed quizzes expected %q, got %v", tc.count, tc.expected, titles(got))
		}
	}
}

func TestEarnedRulesNeverRematch(t *testing.T) {
	earned := make(map[string]bool)
	facts := Facts{CompletedLessonCount: 1, PassedQuizCount: 1, HasPerfectScore: true}

	first := Evaluate(facts, earned)
	for _, r := range first {
		earned[r.Title] = true
	}
	if len(first) != 3 {
		t.Fatalf("Expected 3 awards, got %d", len(first))
	}

	second := Evaluate(facts, earned)
	if len(second) != 0 {
		t.Errorf("Expected no awards on re-run, got %v", titles(second))
	}
}
