package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// Hosts that record attempts.
const (
	HostTUI      = "tui"
	HostWeb      = "web"
	HostTelegram = "telegram"
)

// AttemptFromResult converts a graded quiz result into attempt data.
func AttemptFromResult(res quiz.Result, host string, started, finished time.Time) AttemptData {
	answers := make([]AnswerData, len(res.Review))
	for i, item := range res.Review {
		answers[i] = AnswerData{
			QuestionIndex: item.Number - 1,
			QuestionText:  item.Question,
			ChosenIndex:   item.ChosenIndex,
			ChosenText:    item.ChosenText,
			CorrectIndex:  item.CorrectIndex,
			Correct:       item.Correct,
		}
	}
	var d time.Duration
	if !started.IsZero() && finished.After(started) {
		d = finished.Sub(started)
	}
	return AttemptData{
		Timestamp:  finished,
		BankID:     res.BankID,
		Host:       host,
		Score:      res.Score,
		Total:      res.Total,
		Percentage: res.Percentage,
		Tier:       res.Tier.String(),
		Duration:   d,
		Answers:    answers,
	}
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptData) (*AttemptRecord, error) {
	if data.AttemptID == "" {
		data.AttemptID = uuid.NewString()
	}
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}
	ts := data.Timestamp.UTC()

	seqNum, err := r.store.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	b := r.store.builder()
	tx, err := r.store.drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	insert := b.Insert(attemptsTable.Name).
		Columns("attempt_id", "sequence", "timestamp", "bank_id", "host",
			"score", "total", "percentage", "tier", "duration_ms").
		Values(data.AttemptID, seqNum, ts, data.BankID, data.Host,
			data.Score, data.Total, data.Percentage, data.Tier, data.Duration.Milliseconds())
	if err := execQuery(ctx, tx, insert); err != nil {
		return nil, rollback(tx, fmt.Errorf("save attempt: %w", err))
	}

	if len(data.Answers) > 0 {
		answers := b.Insert(attemptAnswersTable.Name).
			Columns("attempt_id", "question_index", "question_text",
				"chosen_index", "chosen_text", "correct_index", "correct")
		for _, a := range data.Answers {
			answers.Values(data.AttemptID, a.QuestionIndex, a.QuestionText,
				a.ChosenIndex, a.ChosenText, a.CorrectIndex, a.Correct)
		}
		if err := execQuery(ctx, tx, answers); err != nil {
			return nil, rollback(tx, fmt.Errorf("save answers: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attempt: %w", err)
	}

	return &AttemptRecord{
		AttemptID:  data.AttemptID,
		Sequence:   seqNum,
		Timestamp:  ts,
		BankID:     data.BankID,
		Host:       data.Host,
		Score:      data.Score,
		Total:      data.Total,
		Percentage: data.Percentage,
		Tier:       data.Tier,
		DurationMs: data.Duration.Milliseconds(),
	}, nil
}

func (r *eventRepo) RecentAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := r.store.builder().
		Select("attempt_id", "sequence", "timestamp", "bank_id", "host",
			"score", "total", "percentage", "tier", "duration_ms").
		From(entsql.Table(attemptsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if opts.BankID != "" {
		sel.Where(entsql.EQ("bank_id", opts.BankID))
	}
	if opts.Host != "" {
		sel.Where(entsql.EQ("host", opts.Host))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var out []AttemptRecord
	err := queryRows(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var a AttemptRecord
		if err := rows.Scan(&a.AttemptID, &a.Sequence, &a.Timestamp, &a.BankID, &a.Host,
			&a.Score, &a.Total, &a.Percentage, &a.Tier, &a.DurationMs); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AttemptAnswers(ctx context.Context, attemptID string) ([]AnswerData, error) {
	sel := r.store.builder().
		Select("question_index", "question_text", "chosen_index", "chosen_text",
			"correct_index", "correct").
		From(entsql.Table(attemptAnswersTable.Name)).
		Where(entsql.EQ("attempt_id", attemptID)).
		OrderBy("question_index")

	var out []AnswerData
	err := queryRows(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var a AnswerData
		if err := rows.Scan(&a.QuestionIndex, &a.QuestionText, &a.ChosenIndex,
			&a.ChosenText, &a.CorrectIndex, &a.Correct); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return out, nil
}

func (r *eventRepo) BankStats(ctx context.Context) ([]BankStat, error) {
	sel := r.store.builder().
		Select("bank_id",
			entsql.As(entsql.Count("*"), "attempts"),
			entsql.As(entsql.Avg("percentage"), "avg_percentage"),
			entsql.As(entsql.Max("percentage"), "best_percentage"),
			entsql.As(entsql.Sum("score"), "total_score"),
			entsql.As(entsql.Sum("total"), "total_questions")).
		From(entsql.Table(attemptsTable.Name)).
		GroupBy("bank_id").
		OrderBy("bank_id")

	var out []BankStat
	err := queryRows(ctx, r.store.drv, sel, func(rows *entsql.Rows) error {
		var (
			st  BankStat
			avg sql.NullFloat64
		)
		if err := rows.Scan(&st.BankID, &st.Attempts, &avg, &st.BestPercentage,
			&st.TotalScore, &st.TotalQuestions); err != nil {
			return err
		}
		st.AvgPercentage = avg.Float64
		out = append(out, st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query bank stats: %w", err)
	}
	return out, nil
}

func (r *eventRepo) ClearAttempts(ctx context.Context) (int, error) {
	b := r.store.builder()

	var n int
	count := b.Select(entsql.Count("*")).From(entsql.Table(attemptsTable.Name))
	err := queryRows(ctx, r.store.drv, count, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}

	tx, err := r.store.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	if err := execQuery(ctx, tx, b.Delete(attemptAnswersTable.Name)); err != nil {
		return 0, rollback(tx, fmt.Errorf("delete answers: %w", err))
	}
	if err := execQuery(ctx, tx, b.Delete(attemptsTable.Name)); err != nil {
		return 0, rollback(tx, fmt.Errorf("delete attempts: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear: %w", err)
	}
	return n, nil
}

// execQuery renders q and executes it, discarding the result.
func execQuery(ctx context.Context, ex dialect.ExecQuerier, q entsql.Querier) error {
	query, args := q.Query()
	return ex.Exec(ctx, query, args, nil)
}

// queryRows renders q, runs it and calls scan once per row.
func queryRows(ctx context.Context, ex dialect.ExecQuerier, q entsql.Querier, scan func(*entsql.Rows) error) error {
	query, args := q.Query()
	var rows entsql.Rows
	if err := ex.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}
