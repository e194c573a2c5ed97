package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "attempt_id", Type: field.TypeString, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "bank_id", Type: field.TypeString},
		{Name: "host", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "percentage", Type: field.TypeInt},
		{Name: "tier", Type: field.TypeString},
		{Name: "duration_ms", Type: field.TypeInt64},
	}
	attemptsTable = &schema.Table{
		Name:       "attempts",
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "attempt_bank_id_timestamp",
				Unique:  false,
				Columns: []*schema.Column{attemptsColumns[4], attemptsColumns[3]},
			},
		},
	}

	attemptAnswersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "attempt_id", Type: field.TypeString},
		{Name: "question_index", Type: field.TypeInt},
		{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		{Name: "chosen_index", Type: field.TypeInt},
		{Name: "chosen_text", Type: field.TypeString, Size: 2147483647},
		{Name: "correct_index", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeBool},
	}
	attemptAnswersTable = &schema.Table{
		Name:       "attempt_answers",
		Columns:    attemptAnswersColumns,
		PrimaryKey: []*schema.Column{attemptAnswersColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "attemptanswer_attempt_id_question_index",
				Unique:  true,
				Columns: []*schema.Column{attemptAnswersColumns[1], attemptAnswersColumns[2]},
			},
		},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{llmRequestEventsColumns[5]},
			},
		},
	}

	// tables lists every table managed by auto-migration.
	tables = []*schema.Table{
		attemptsTable,
		attemptAnswersTable,
		llmRequestEventsTable,
	}
)

// migrate creates or upgrades the tables with ent's migration engine.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
