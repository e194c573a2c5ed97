package store

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"

	entschema "github.com/abhisek/protoquiz/ent/schema"
)

// The hand-built migration tables must stay in step with the ent schema
// declarations.
func TestMigrationMatchesSchema(t *testing.T) {
	mixin := entschema.EventMixin{}.Fields()
	tests := []struct {
		table  *schema.Table
		fields []ent.Field
	}{
		{attemptsTable, append(mixin, entschema.Attempt{}.Fields()...)},
		{attemptAnswersTable, entschema.AttemptAnswer{}.Fields()},
		{llmRequestEventsTable, append(entschema.EventMixin{}.Fields(), entschema.LLMRequestEvent{}.Fields()...)},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			cols := make(map[string]*schema.Column, len(tt.table.Columns))
			for _, c := range tt.table.Columns {
				cols[c.Name] = c
			}
			// id is implicit in ent schemas.
			if len(cols) != len(tt.fields)+1 {
				t.Errorf("table has %d columns, schema declares %d fields", len(cols)-1, len(tt.fields))
			}
			for _, f := range tt.fields {
				d := f.Descriptor()
				c, ok := cols[d.Name]
				if !ok {
					t.Errorf("column %q missing from migration", d.Name)
					continue
				}
				if c.Type != d.Info.Type {
					t.Errorf("column %q type = %v, schema says %v", d.Name, c.Type, d.Info.Type)
				}
				if d.Unique && !c.Unique {
					t.Errorf("column %q should be unique", d.Name)
				}
			}
		})
	}
}
