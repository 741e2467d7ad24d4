package service

import (
	"github.com/mochitomo/mochitomo/internal/model"
)

// LatestRecord returns the most recently created record. Records without
// a creation time are ignored.
func LatestRecord(records []model.GoalRecord) (model.GoalRecord, bool) {
	var latest model.GoalRecord
	found := false

	for _, r := range records {
		if r.CreatedAt == nil {
			continue
		}
		if !found || r.CreatedAt.After(*latest.CreatedAt) {
			latest = r
			found = true
		}
	}

	return latest, found
}

// DeriveViews builds the two participant cards of the latest record,
// both carrying the given review status. It is recomputed from scratch
// on every change, never patched.
func DeriveViews(records []model.GoalRecord, status model.AuditStatus) (model.GoalViews, bool) {
	latest, ok := LatestRecord(records)
	if !ok {
		return model.GoalViews{}, false
	}
	return ViewsFor(latest, status), true
}

// ViewsFor builds the participant cards of one record.
func ViewsFor(record model.GoalRecord, status model.AuditStatus) model.GoalViews {
	if !status.Valid() {
		status = model.AuditPending
	}

	return model.GoalViews{
		First: model.UserGoalView{
			Goal:     record.Goal,
			Reward:   record.Reward1,
			Amount:   record.Money1,
			Status:   status,
			Deadline: record.GoalDate,
		},
		Second: model.UserGoalView{
			Goal:     record.Goal,
			Reward:   record.Reward2,
			Amount:   record.Money2,
			Status:   status,
			Deadline: record.GoalDate,
		},
	}
}
