package handler

import (
	"net/http"

	"github.com/mochitomo/mochitomo/internal/ui"
	"github.com/mochitomo/mochitomo/internal/ui/views"
)

type HomeHandler struct {
	tagline string
}

func NewHomeHandler(tagline string) *HomeHandler {
	return &HomeHandler{tagline: tagline}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, views.HomePage(views.HomeData{Tagline: h.tagline}))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	ui.Render(w, r, views.NotFoundPage(r.URL.Path))
}
