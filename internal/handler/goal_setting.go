package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mochitomo/mochitomo/internal/navigation"
	"github.com/mochitomo/mochitomo/internal/service"
	"github.com/mochitomo/mochitomo/internal/ui"
	"github.com/mochitomo/mochitomo/internal/ui/views"
	"github.com/mochitomo/mochitomo/internal/validation"
)

const msgSubmitFailed = "目標の保存に失敗しました。時間をおいてもう一度お試しください。"

type GoalSettingHandler struct {
	goalService *service.GoalService
}

func NewGoalSettingHandler(goalService *service.GoalService) *GoalSettingHandler {
	return &GoalSettingHandler{
		goalService: goalService,
	}
}

func (h *GoalSettingHandler) GoalSettingPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, views.GoalSettingPage(views.GoalFormData{}))
}

func (h *GoalSettingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form := validation.GoalForm{
		Goal:     r.FormValue(validation.FieldGoal),
		Reward1:  r.FormValue(validation.FieldReward1),
		Money1:   r.FormValue(validation.FieldMoney1),
		Reward2:  r.FormValue(validation.FieldReward2),
		Money2:   r.FormValue(validation.FieldMoney2),
		Deadline: r.FormValue(validation.FieldDeadline),
	}

	_, err := h.goalService.Submit(r.Context(), form)
	if err == nil {
		navigation.Redirect(w, r, navigation.GoalResult)
		return
	}

	data := views.GoalFormData{Form: form}

	var formErr *validation.FormError
	switch {
	case errors.As(err, &formErr):
		data.Errors = formErr.Fields
		notice := ""
		if formErr.NearDeadline {
			notice = validation.MsgNearDeadline
		}
		h.renderForm(w, r, data, http.StatusUnprocessableEntity, views.ToastWarning, notice)

	case errors.Is(err, service.ErrNearDeadline):
		h.renderForm(w, r, data, http.StatusUnprocessableEntity, views.ToastWarning, validation.MsgNearDeadline)

	default:
		slog.Error("failed to submit goal", "error", err)
		h.renderForm(w, r, data, http.StatusInternalServerError, views.ToastError, msgSubmitFailed)
	}
}

// renderForm re-renders the form with the submitted values. HTMX gets the
// form fragment plus a toast; plain posts get the whole page with the
// message inline and a proper status code.
func (h *GoalSettingHandler) renderForm(w http.ResponseWriter, r *http.Request, data views.GoalFormData, status int, kind views.ToastKind, message string) {
	if r.Header.Get("HX-Request") == "true" {
		ui.Render(w, r, views.GoalForm(data))
		if message != "" {
			ui.Toast(w, r, kind, message)
		}
		return
	}

	data.Notice = message
	w.WriteHeader(status)
	ui.Render(w, r, views.GoalSettingPage(data))
}
