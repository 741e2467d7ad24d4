package views

import (
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/mochitomo/mochitomo/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// cn merges tailwind classes; later classes win over conflicting earlier ones.
func cn(classes ...string) string {
	return twmerge.Merge(classes...)
}

// yen formats an amount the way the result cards show it: 100,000円.
func yen(amount int64) string {
	return message.NewPrinter(language.Japanese).Sprintf("%d円", amount)
}

func statusClass(status model.AuditStatus) string {
	if status == model.AuditSuccess {
		return "bg-green-100 text-green-800"
	}
	return ""
}

func statusIcon(status model.AuditStatus) string {
	switch status {
	case model.AuditSuccess:
		return "✅"
	case model.AuditFailure:
		return "❌"
	default:
		return "⏳"
	}
}

func toastClass(kind ToastKind) string {
	switch kind {
	case ToastWarning:
		return "bg-amber-100 text-amber-900"
	case ToastError:
		return "bg-red-600"
	default:
		return ""
	}
}

func errorClass(msg string) string {
	if msg == "" {
		return ""
	}
	return "border-red-500 focus:border-red-500"
}

func progressValue(status model.AuditStatus) string {
	return strconv.Itoa(status.Progress())
}
