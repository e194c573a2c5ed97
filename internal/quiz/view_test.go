package quiz

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestView_Unanswered(t *testing.T) {
	e := newTestEngine(t)
	qv := e.View().Question

	if qv.Number != 1 || qv.Total != 3 {
		t.Errorf("Number/Total = %d/%d, want 1/3", qv.Number, qv.Total)
	}
	if qv.ProgressLabel() != "Question 1 of 3" {
		t.Errorf("ProgressLabel = %q", qv.ProgressLabel())
	}
	if qv.Selected != Unanswered || qv.Answered || qv.Locked {
		t.Errorf("unexpected answered state: %+v", qv)
	}
	if qv.Explanation != "" || qv.Feedback() != "" {
		t.Error("feedback shown before answering")
	}
	for _, o := range qv.Options {
		if o.Mark != MarkNone {
			t.Errorf("option %d marked %v before answering", o.Index, o.Mark)
		}
	}
	if qv.Previous != ControlDisabled {
		t.Errorf("Previous = %v, want disabled", qv.Previous)
	}
	if qv.Next != ControlDisabled {
		t.Errorf("Next = %v, want disabled", qv.Next)
	}
	if qv.Submit != ControlHidden {
		t.Errorf("Submit = %v, want hidden", qv.Submit)
	}
}

func TestView_WrongAnswerMarks(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Select(2); err != nil {
		t.Fatal(err)
	}
	qv := e.View().Question

	want := []Mark{MarkCorrect, MarkNone, MarkIncorrect}
	for i, o := range qv.Options {
		if o.Mark != want[i] {
			t.Errorf("option %d mark = %v, want %v", i, o.Mark, want[i])
		}
	}
	if !qv.Options[2].Selected {
		t.Error("selected option not flagged")
	}
	if qv.Feedback() != "Incorrect" {
		t.Errorf("Feedback = %q", qv.Feedback())
	}
	if qv.CorrectText != "a" || qv.Explanation != "E1" {
		t.Errorf("CorrectText=%q Explanation=%q", qv.CorrectText, qv.Explanation)
	}
	if qv.Next != ControlEnabled {
		t.Errorf("Next = %v, want enabled", qv.Next)
	}
}

func TestView_CorrectAnswerMarks(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Select(0); err != nil {
		t.Fatal(err)
	}
	qv := e.View().Question
	if qv.Feedback() != "Correct!" {
		t.Errorf("Feedback = %q", qv.Feedback())
	}
	if qv.CorrectText != "" {
		t.Errorf("CorrectText = %q, want empty", qv.CorrectText)
	}
	for i, o := range qv.Options[1:] {
		if o.Mark != MarkNone {
			t.Errorf("option %d mark = %v, want none", i+1, o.Mark)
		}
	}
}

func TestView_LastQuestionControls(t *testing.T) {
	e := newTestEngine(t)
	answerAll(t, e, []int{0, 1})
	if err := e.Next(); err != nil {
		t.Fatal(err)
	}

	qv := e.View().Question
	if qv.Next != ControlHidden {
		t.Errorf("Next = %v, want hidden", qv.Next)
	}
	if qv.Submit != ControlDisabled {
		t.Errorf("Submit = %v, want disabled", qv.Submit)
	}
	if qv.Previous != ControlEnabled {
		t.Errorf("Previous = %v, want enabled", qv.Previous)
	}
	if qv.Progress != 1 {
		t.Errorf("Progress = %v, want 1", qv.Progress)
	}

	if err := e.Select(3); err != nil {
		t.Fatal(err)
	}
	if got := e.View().Question.Submit; got != ControlEnabled {
		t.Errorf("Submit after answering = %v, want enabled", got)
	}
}

func TestView_Completed(t *testing.T) {
	e := newTestEngine(t)
	answerAll(t, e, []int{0, 1, 0})
	if _, err := e.Submit(); err != nil {
		t.Fatal(err)
	}
	v := e.View()
	if v.Phase != PhaseCompleted || v.Question != nil || v.Result == nil {
		t.Fatalf("unexpected completed view: %+v", v)
	}
	if v.Result.Score != 2 || v.Result.Percentage != 67 {
		t.Errorf("Score/Percentage = %d/%d, want 2/67", v.Result.Score, v.Result.Percentage)
	}
	if len(v.Result.Review) != 3 {
		t.Errorf("review has %d items, want 3", len(v.Result.Review))
	}
}

func TestView_JSONUsesNames(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Select(1); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(e.View())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"phase":"in_progress"`, `"mark":"incorrect"`, `"next":"enabled"`, `"submit":"hidden"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s: %s", want, s)
		}
	}
}
