package quiz

import (
	"fmt"
	"math"
	"slices"
)

// NotAnswered is shown in a review for a slot that was never filled.
const NotAnswered = "Not answered"

// Tier is the qualitative bracket a percentage falls into.
type Tier int

const (
	TierNeedsReview Tier = iota
	TierMarginal
	TierGood
	TierTop
)

// tierTable is ordered from the highest threshold down; the first row whose
// minimum the percentage reaches wins.
var tierTable = []struct {
	min  int
	tier Tier
}{
	{90, TierTop},
	{70, TierGood},
	{50, TierMarginal},
	{0, TierNeedsReview},
}

// ClassifyPercentage maps a percentage to its tier.
func ClassifyPercentage(pct int) Tier {
	for _, row := range tierTable {
		if pct >= row.min {
			return row.tier
		}
	}
	return TierNeedsReview
}

func (t Tier) String() string {
	switch t {
	case TierTop:
		return "top"
	case TierGood:
		return "good"
	case TierMarginal:
		return "marginal"
	default:
		return "needs-review"
	}
}

// Message returns the closing message for the tier. topic names the subject
// of the bank and is only used by the top tier.
func (t Tier) Message(topic string) string {
	switch t {
	case TierTop:
		return fmt.Sprintf("Excellent! You have a strong understanding of %s.", topic)
	case TierGood:
		return "Good job! You have a solid grasp of the basics."
	case TierMarginal:
		return "Not bad! Consider reviewing the material and trying again."
	default:
		return "Keep studying! Review the material and retake the quiz."
	}
}

// ParseTier is the inverse of Tier.String.
func ParseTier(s string) (Tier, error) {
	for _, t := range []Tier{TierTop, TierGood, TierMarginal, TierNeedsReview} {
		if t.String() == s {
			return t, nil
		}
	}
	return TierNeedsReview, fmt.Errorf("unknown tier %q", s)
}

// Score counts the slots whose answer matches the question's correct index.
// Unanswered slots (negative values) and slots beyond len(answers) count as
// incorrect.
func Score(questions []Question, answers []int) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectIndex {
			score++
		}
	}
	return score
}

// Percentage returns round(score/total*100) with halves rounded up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(score)*100/float64(total) + 0.5))
}

// ReviewItem is the post-submission breakdown of one question.
type ReviewItem struct {
	Number      int    `json:"number"`
	Question    string `json:"question"`
	Answered    bool   `json:"answered"`
	ChosenIndex int    `json:"chosen_index"`
	ChosenText  string `json:"chosen_text"`
	Correct     bool   `json:"correct"`

	CorrectIndex int `json:"correct_index"`
	// CorrectText is only set when the answer was wrong.
	CorrectText string `json:"correct_text,omitempty"`
	Explanation string `json:"explanation"`
}

// Result is the graded outcome of a completed attempt.
type Result struct {
	BankID     string       `json:"bank_id"`
	BankTitle  string       `json:"bank_title"`
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
	Tier       Tier         `json:"tier"`
	Message    string       `json:"message"`
	Review     []ReviewItem `json:"review"`
}

// clone returns a copy that shares no backing array with r.
func (r Result) clone() Result {
	r.Review = slices.Clone(r.Review)
	return r
}

// Grade scores answers against the bank and builds the full review. It never
// fails: out-of-range or missing answers are reported as not answered.
func Grade(bank Bank, answers []int) Result {
	score := Score(bank.Questions, answers)
	total := len(bank.Questions)
	pct := Percentage(score, total)
	tier := ClassifyPercentage(pct)

	review := make([]ReviewItem, total)
	for i, q := range bank.Questions {
		item := ReviewItem{
			Number:       i + 1,
			Question:     q.Text,
			ChosenIndex:  Unanswered,
			ChosenText:   NotAnswered,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
		if i < len(answers) && answers[i] >= 0 && answers[i] < len(q.Options) {
			item.Answered = true
			item.ChosenIndex = answers[i]
			item.ChosenText = q.Options[answers[i]]
		}
		item.Correct = item.Answered && item.ChosenIndex == q.CorrectIndex
		if !item.Correct {
			item.CorrectText = q.CorrectText()
		}
		review[i] = item
	}

	return Result{
		BankID:     bank.ID,
		BankTitle:  bank.Title,
		Score:      score,
		Total:      total,
		Percentage: pct,
		Tier:       tier,
		Message:    tier.Message(bank.Topic),
		Review:     review,
	}
}
