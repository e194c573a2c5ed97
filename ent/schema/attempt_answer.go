package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptAnswer is the learner's choice for one question of an Attempt.
type AttemptAnswer struct {
	ent.Schema
}

func (AttemptAnswer) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			NotEmpty(),
		field.Int("question_index"),
		field.Text("question_text"),
		field.Int("chosen_index").
			Comment("-1 when the question was left unanswered"),
		field.Text("chosen_text"),
		field.Int("correct_index"),
		field.Bool("correct"),
	}
}

func (AttemptAnswer) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("attempt_id", "question_index").Unique(),
	}
}
