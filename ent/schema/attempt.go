package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Attempt is one finished quiz run.
type Attempt struct {
	ent.Schema
}

func (Attempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Attempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			Unique().
			NotEmpty().
			Comment("UUID assigned when the attempt is recorded"),
		field.String("bank_id").
			NotEmpty(),
		field.String("host").
			Comment("tui, web or telegram"),
		field.Int("score"),
		field.Int("total"),
		field.Int("percentage"),
		field.String("tier"),
		field.Int64("duration_ms"),
	}
}

func (Attempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("bank_id", "timestamp"),
	}
}
