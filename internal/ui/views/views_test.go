package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/mochitomo/mochitomo/internal/ctxkeys"
	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/validation"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func requestContext(path string) context.Context {
	ctx := templ.WithNonce(context.Background(), "n0nce")
	ctx = ctxkeys.WithCSRFToken(ctx, "tok3n")
	return ctxkeys.WithURLPath(ctx, path)
}

func TestLayout(t *testing.T) {
	out := render(t, requestContext("/help"), HelpPage(HelpData{Title: "使い方", Content: "<p>本文</p>"}))

	for _, want := range []string{
		`<title>使い方 | モチトモ</title>`,
		`nonce="n0nce"`,
		`tok3n`,
		`id="toast-container"`,
		`href="/goal-setting"`,
		`href="/goal-result"`,
		`href="/help" class="mb-1 block rounded bg-red-600 px-4 py-2 text-white last:mb-0 hover:bg-red-800" aria-current="page"`,
		`<p>本文</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGoalForm_Errors(t *testing.T) {
	data := GoalFormData{
		Form:   validation.GoalForm{Goal: "", Reward1: "<b>靴</b>", Money1: "abc"},
		Errors: validation.FieldErrors{validation.FieldGoal: validation.MsgGoalRequired, validation.FieldMoney1: validation.MsgMoney1Invalid},
	}
	out := render(t, requestContext("/goal-setting"), GoalForm(data))

	if !strings.Contains(out, validation.MsgGoalRequired) || !strings.Contains(out, validation.MsgMoney1Invalid) {
		t.Error("field messages missing")
	}
	if strings.Contains(out, validation.MsgReward2Required) {
		t.Error("message shown for a valid field")
	}
	if strings.Contains(out, "<b>靴</b>") {
		t.Error("form value not escaped")
	}
	if !strings.Contains(out, `name="csrf_token" value="tok3n"`) {
		t.Error("csrf field missing")
	}
	if strings.Contains(out, "<html") {
		t.Error("fragment rendered with layout")
	}
}

func TestResultState(t *testing.T) {
	views := model.GoalViews{
		First:  model.UserGoalView{Goal: "毎日勉強", Reward: "A", Amount: 100000, Status: model.AuditSuccess, Deadline: "2026-12-24"},
		Second: model.UserGoalView{Goal: "毎日勉強", Reward: "B", Amount: 200, Status: model.AuditSuccess, Deadline: "2026-12-24"},
	}
	out := render(t, requestContext("/goal-result"), ResultState(ResultData{
		PageID:    "p1",
		Views:     views,
		HasGoal:   true,
		Status:    model.AuditSuccess,
		ProofName: "finish.png",
	}))

	for _, want := range []string{
		"1人目の目標", "2人目の目標", "100,000円", "200円",
		"選択された画像: finish.png",
		`hx-post="/goal-result/p1/proof"`,
		`value="100"`,
		"bg-green-100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "bg-amber-100") {
		t.Error("success chip kept the pending colour")
	}
}

func TestResultState_NoGoal(t *testing.T) {
	out := render(t, requestContext("/goal-result"), ResultState(ResultData{PageID: "p1", Status: model.AuditPending}))

	if !strings.Contains(out, "まだ目標が設定されていません") {
		t.Error("empty state missing")
	}
	if strings.Contains(out, "画像をアップロード") {
		t.Error("upload shown without a goal")
	}
}

func TestResultState_LoadFailed(t *testing.T) {
	out := render(t, requestContext("/goal-result"), ResultState(ResultData{PageID: "p1", LoadFailed: true, Status: model.AuditPending}))

	if !strings.Contains(out, "目標を読み込めませんでした") {
		t.Error("reload banner missing")
	}
	if strings.Contains(out, "まだ目標が設定されていません") {
		t.Error("empty state shown for a failed load")
	}
}

func TestGoalResultPage(t *testing.T) {
	out := render(t, requestContext("/goal-result"), GoalResultPage(ResultData{
		PageID: "p1",
		Proofs: []ProofItem{{Name: "old.png", URL: "https://files.example.test/old.png", UploadedAt: "2026-10-15 10:00"}},
	}))

	if !strings.Contains(out, `sse-connect="/goal-result/p1/events"`) {
		t.Error("event stream not wired")
	}
	if !strings.Contains(out, "old.png") || !strings.Contains(out, "目標設定ページに戻る") {
		t.Error("page details missing")
	}
}

func TestToast(t *testing.T) {
	out := render(t, context.Background(), Toast(ToastWarning, validation.MsgNearDeadline))

	if !strings.Contains(out, validation.MsgNearDeadline) {
		t.Error("message missing")
	}
	if !strings.Contains(out, "bg-amber-100") || strings.Contains(out, "bg-gray-800") {
		t.Errorf("warning classes not merged: %s", out)
	}
}

func TestYen(t *testing.T) {
	tests := map[int64]string{
		100:     "100円",
		100000:  "100,000円",
		1234567: "1,234,567円",
	}
	for in, want := range tests {
		if got := yen(in); got != want {
			t.Errorf("yen(%d) = %q, want %q", in, got, want)
		}
	}
}
