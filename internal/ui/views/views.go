// Package views holds the app's pages and HTMX fragments as templ
// components. Run "do gen" after editing a .templ file.
package views

import (
	"context"
	"encoding/json"

	"github.com/mochitomo/mochitomo/internal/ctxkeys"
	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/navigation"
	"github.com/mochitomo/mochitomo/internal/validation"
)

const (
	defaultAppName = "モチトモ"
	htmxConfig     = `{"includeIndicatorStyles":false}`
)

type HomeData struct {
	Tagline string
}

// GoalFormData fills the goal setting form. Notice is shown inside the form
// when toasts are unavailable (no HTMX).
type GoalFormData struct {
	Form   validation.GoalForm
	Errors validation.FieldErrors
	Notice string
}

type ProofItem struct {
	Name       string
	URL        string
	UploadedAt string
}

// ResultData is one rendering of the goal result page.
type ResultData struct {
	PageID     string
	Views      model.GoalViews
	HasGoal    bool
	Status     model.AuditStatus
	ProofName  string
	LoadFailed bool
	Proofs     []ProofItem
}

type HelpData struct {
	Title       string
	Description string
	Content     string // HTML rendered from content/help.md
}

type ToastKind string

const (
	ToastWarning ToastKind = "warning"
	ToastError   ToastKind = "error"
)

// field is one labelled input of the goal form.
type field struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return defaultAppName
}

func pageTitle(ctx context.Context, title string) string {
	if title == "" {
		return appName(ctx)
	}
	return title + " | " + appName(ctx)
}

func menu(ctx context.Context) []navigation.MenuItem {
	return navigation.Menu(ctxkeys.URLPath(ctx))
}

// csrfHeaders is the hx-headers value that sends the CSRF token with every
// HTMX request.
func csrfHeaders(ctx context.Context) string {
	b, _ := json.Marshal(map[string]string{"X-CSRF-Token": ctxkeys.CSRFToken(ctx)})
	return string(b)
}

func proofPath(pageID string) string {
	return "/goal-result/" + pageID + "/proof"
}

func eventsPath(pageID string) string {
	return "/goal-result/" + pageID + "/events"
}
