package quiz

import "testing"

func TestClassifyPercentage(t *testing.T) {
	tests := []struct {
		pct  int
		want Tier
	}{
		{100, TierTop},
		{90, TierTop},
		{89, TierGood},
		{70, TierGood},
		{69, TierMarginal},
		{63, TierMarginal},
		{50, TierMarginal},
		{49, TierNeedsReview},
		{0, TierNeedsReview},
	}
	for _, tt := range tests {
		if got := ClassifyPercentage(tt.pct); got != tt.want {
			t.Errorf("ClassifyPercentage(%d) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{5, 8, 63},
		{1, 8, 13},
		{7, 8, 88},
		{8, 8, 100},
		{0, 8, 0},
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestTierMessage(t *testing.T) {
	if got := TierTop.Message("Modbus RTU"); got != "Excellent! You have a strong understanding of Modbus RTU." {
		t.Errorf("top message = %q", got)
	}
	if got := TierMarginal.Message("x"); got != "Not bad! Consider reviewing the material and trying again." {
		t.Errorf("marginal message = %q", got)
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range []Tier{TierTop, TierGood, TierMarginal, TierNeedsReview} {
		got, err := ParseTier(tier.String())
		if err != nil || got != tier {
			t.Errorf("ParseTier(%q) = %v, %v", tier.String(), got, err)
		}
	}
	if _, err := ParseTier("legendary"); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestGrade_UnansweredIsIncorrect(t *testing.T) {
	b := testBank()
	res := Grade(b, []int{0, Unanswered})

	if res.Score != 1 {
		t.Errorf("Score = %d, want 1", res.Score)
	}
	item := res.Review[1]
	if item.Answered || item.Correct {
		t.Errorf("review[1] Answered=%v Correct=%v, want false,false", item.Answered, item.Correct)
	}
	if item.ChosenText != NotAnswered {
		t.Errorf("ChosenText = %q, want %q", item.ChosenText, NotAnswered)
	}
	if item.CorrectText != "b" {
		t.Errorf("CorrectText = %q, want b", item.CorrectText)
	}
	// Missing trailing slot.
	if res.Review[2].ChosenText != NotAnswered {
		t.Errorf("review[2] ChosenText = %q", res.Review[2].ChosenText)
	}
}

func TestGrade_OutOfRangeAnswerDoesNotPanic(t *testing.T) {
	res := Grade(testBank(), []int{9, 1, 3})
	if res.Score != 2 {
		t.Errorf("Score = %d, want 2", res.Score)
	}
	if res.Review[0].Answered {
		t.Error("out-of-range answer reported as answered")
	}
}

func TestGrade_CorrectTextOnlyWhenWrong(t *testing.T) {
	res := Grade(testBank(), []int{0, 0, 3})
	if res.Review[0].CorrectText != "" {
		t.Errorf("correct answer carries CorrectText %q", res.Review[0].CorrectText)
	}
	if res.Review[1].CorrectText != "b" {
		t.Errorf("wrong answer CorrectText = %q, want b", res.Review[1].CorrectText)
	}
	if res.Review[1].ChosenText != "a" {
		t.Errorf("ChosenText = %q, want a", res.Review[1].ChosenText)
	}
	if res.Review[2].Explanation != "E3" {
		t.Errorf("Explanation = %q", res.Review[2].Explanation)
	}
	if res.Percentage != 67 || res.Tier != TierMarginal {
		t.Errorf("Percentage = %d, Tier = %v, want 67 marginal", res.Percentage, res.Tier)
	}
}
