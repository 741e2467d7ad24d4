package navigation

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPath(t *testing.T) {
	tests := map[string]string{
		Home:        "/",
		GoalSetting: "/goal-setting",
		GoalResult:  "/goal-result",
		Help:        "/help",
		"missing":   "/",
	}
	for name, want := range tests {
		if got := Path(name); got != want {
			t.Errorf("Path(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestRedirect(t *testing.T) {
	t.Run("htmx", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/goal-setting", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()

		Redirect(rec, req, GoalResult)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("HX-Redirect"); got != "/goal-result" {
			t.Errorf("HX-Redirect = %q", got)
		}
	})

	t.Run("plain", func(t *testing.T) {
		rec := httptest.NewRecorder()

		Redirect(rec, httptest.NewRequest("POST", "/goal-setting", nil), GoalResult)

		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/goal-result" {
			t.Errorf("Location = %q", got)
		}
	})
}

func TestMenu(t *testing.T) {
	items := Menu("/goal-result")

	want := []MenuItem{
		{Label: "目標設定", Path: "/goal-setting"},
		{Label: "目標達成確認", Path: "/goal-result", Active: true},
		{Label: "使い方", Path: "/help"},
	}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want[i])
		}
	}

	for _, item := range Menu("/") {
		if item.Active {
			t.Errorf("%s active on the home page", item.Label)
		}
	}
}
