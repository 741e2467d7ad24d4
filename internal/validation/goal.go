package validation

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mochitomo/mochitomo/internal/model"
)

// Form field keys, shared with the goal setting form.
const (
	FieldGoal     = "goal"
	FieldReward1  = "reward1"
	FieldMoney1   = "money1"
	FieldReward2  = "reward2"
	FieldMoney2   = "money2"
	FieldDeadline = "deadline"
)

const (
	MsgGoalRequired     = "目標を入力してください"
	MsgReward1Required  = "ご褒美のリンクを入力してください"
	MsgMoney1Invalid    = "金額を正しく入力してください"
	MsgReward2Required  = "2人目のご褒美のリンクを入力してください"
	MsgMoney2Invalid    = "2人目の金額を正しく入力してください"
	MsgDeadlineRequired = "期限を選択してください"

	MsgNearDeadline = "あなた方の目標は本当に1週間以内で達成できますか？もう1度よく考えてください。"
)

const day = 24 * time.Hour

// GoalForm holds the raw goal setting form values.
type GoalForm struct {
	Goal     string
	Reward1  string
	Money1   string
	Reward2  string
	Money2   string
	Deadline string // YYYY-MM-DD
}

// GoalInput is a validated, normalized GoalForm.
type GoalInput struct {
	Goal     string
	Reward1  string
	Money1   int64
	Reward2  string
	Money2   int64
	Deadline time.Time
}

// Record converts the input into a goal record ready to be stored.
func (in GoalInput) Record() *model.GoalRecord {
	return &model.GoalRecord{
		Goal:     in.Goal,
		Reward1:  in.Reward1,
		Money1:   in.Money1,
		Reward2:  in.Reward2,
		Money2:   in.Money2,
		GoalDate: in.Deadline.Format(model.DateLayout),
	}
}

// FieldErrors maps a form field key to its message.
type FieldErrors map[string]string

// FormError reports every invalid field of a submitted form.
type FormError struct {
	Fields       FieldErrors
	NearDeadline bool
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}

// GoalRules are the tunables of goal validation.
type GoalRules struct {
	WarningDays int            // Deadlines 0..WarningDays days away are flagged
	Location    *time.Location // Zone deadlines are read in
}

// GoalResult is the outcome of ValidateGoalForm.
type GoalResult struct {
	Input        GoalInput
	Errors       FieldErrors
	NearDeadline bool
}

// Valid reports whether the form can be stored as-is.
func (r GoalResult) Valid() bool {
	return len(r.Errors) == 0 && !r.NearDeadline
}

// ValidateGoalForm checks every required field and flags deadlines that
// fall within the warning window from now.
func ValidateGoalForm(form GoalForm, now time.Time, rules GoalRules) GoalResult {
	loc := rules.Location
	if loc == nil {
		loc = time.Local
	}

	res := GoalResult{Errors: FieldErrors{}}

	res.Input.Goal = strings.TrimSpace(form.Goal)
	if res.Input.Goal == "" {
		res.Errors[FieldGoal] = MsgGoalRequired
	}

	res.Input.Reward1 = strings.TrimSpace(form.Reward1)
	if res.Input.Reward1 == "" {
		res.Errors[FieldReward1] = MsgReward1Required
	}

	money1, ok := parseAmount(form.Money1)
	if !ok {
		res.Errors[FieldMoney1] = MsgMoney1Invalid
	}
	res.Input.Money1 = money1

	res.Input.Reward2 = strings.TrimSpace(form.Reward2)
	if res.Input.Reward2 == "" {
		res.Errors[FieldReward2] = MsgReward2Required
	}

	money2, ok := parseAmount(form.Money2)
	if !ok {
		res.Errors[FieldMoney2] = MsgMoney2Invalid
	}
	res.Input.Money2 = money2

	deadline, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(form.Deadline), loc)
	if err != nil {
		res.Errors[FieldDeadline] = MsgDeadlineRequired
		return res
	}
	res.Input.Deadline = deadline

	days := DaysUntil(deadline, now)
	res.NearDeadline = days >= 0 && days <= rules.WarningDays

	return res
}

// DaysUntil counts whole days from now to deadline, truncated toward zero.
// A deadline earlier today is 0 days away, yesterday is -1.
func DaysUntil(deadline, now time.Time) int {
	return int(deadline.Sub(now) / day)
}

// parseAmount accepts a positive whole yen amount. Empty and zero count
// as missing. Decimals and negatives are rejected on purpose: stakes are
// whole yen and a negative reward has no meaning.
func parseAmount(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
