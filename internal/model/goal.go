package model

import (
	"time"
)

// DateLayout is the wire format of a goal deadline.
const DateLayout = "2006-01-02"

// GoalRecord is one submitted goal for two participants.
// Records are created once and never updated.
type GoalRecord struct {
	ID        string     `db:"id" json:"id"`
	Goal      string     `db:"goal" json:"goal"`
	Reward1   string     `db:"reward1" json:"reward1"`
	Money1    int64      `db:"money1" json:"money1"`
	Reward2   string     `db:"reward2" json:"reward2"`
	Money2    int64      `db:"money2" json:"money2"`
	GoalDate  string     `db:"goal_date" json:"goalDate"`
	CreatedAt *time.Time `db:"created_at" json:"createdAt"`
}
