package model

// AuditStatus is the state of the proof-of-completion review.
type AuditStatus string

const (
	AuditPending AuditStatus = "審査中"
	AuditSuccess AuditStatus = "目標達成"
	AuditFailure AuditStatus = "失敗"
)

func (s AuditStatus) Valid() bool {
	switch s {
	case AuditPending, AuditSuccess, AuditFailure:
		return true
	}
	return false
}

// Progress is the completion percentage shown under the final result.
func (s AuditStatus) Progress() int {
	if s == AuditSuccess {
		return 100
	}
	return 50
}

// UserGoalView is the per-participant progress card.
type UserGoalView struct {
	Goal     string
	Reward   string
	Amount   int64
	Status   AuditStatus
	Deadline string
}

// GoalViews holds the cards for the two participants of one goal.
// Both always share Goal and Deadline.
type GoalViews struct {
	First  UserGoalView
	Second UserGoalView
}

// Participants returns the cards in display order.
func (v GoalViews) Participants() [2]UserGoalView {
	return [2]UserGoalView{v.First, v.Second}
}
