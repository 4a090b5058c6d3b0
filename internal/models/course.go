package models

// Course is a read-only snapshot owned by the content side; the engine only
// needs the lesson id list to size progress computations and seed
// lesson_progress rows.
type Course struct {
	ID        string   `bson:"_id,omitempty" json:"id"`
	Title     string   `bson:"title" json:"title"`
	LessonIDs []string `bson:"lesson_ids" json:"lesson_ids"`
}
