package handler

import (
	"log/slog"
	"net/http"

	"github.com/mochitomo/mochitomo/internal/service"
	"github.com/mochitomo/mochitomo/internal/ui"
	"github.com/mochitomo/mochitomo/internal/ui/views"
)

type HelpHandler struct {
	helpService *service.HelpService
}

func NewHelpHandler(helpService *service.HelpService) *HelpHandler {
	return &HelpHandler{
		helpService: helpService,
	}
}

func (h *HelpHandler) HelpPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.helpService.Page()
	if err != nil {
		slog.Error("failed to load help page", "error", err)
		http.Error(w, "Failed to load help", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, views.HelpPage(views.HelpData{
		Title:       page.Title,
		Description: page.Description,
		Content:     page.HTMLContent, // rendered from our own content dir
	}))
}
