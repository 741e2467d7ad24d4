package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mochitomo/mochitomo/internal/service"
	"github.com/mochitomo/mochitomo/internal/ui"
	"github.com/mochitomo/mochitomo/internal/ui/views"
	"github.com/mochitomo/mochitomo/internal/validation"
)

const (
	msgPageExpired  = "ページの有効期限が切れました。再読み込みしてください。"
	msgNoProof      = "画像を選択してください。"
	msgProofTooBig  = "画像が大きすぎます（10MBまで）。"
	firstStateWait  = 2 * time.Second
	keepAlivePeriod = 25 * time.Second
)

// maxProofRequest leaves room for the multipart envelope around the image
var maxProofRequest = validation.ProofConstraints.MaxSize + 1<<20

type GoalResultHandler struct {
	resultService *service.ResultService
	proofService  *service.ProofService
	loc           *time.Location
}

func NewGoalResultHandler(resultService *service.ResultService, proofService *service.ProofService, loc *time.Location) *GoalResultHandler {
	return &GoalResultHandler{
		resultService: resultService,
		proofService:  proofService,
		loc:           loc,
	}
}

// ResultPage opens a live result page. It stays open while its event
// stream is connected.
func (h *GoalResultHandler) ResultPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.resultService.Open(r.Context())
	if err != nil {
		slog.Error("failed to open result page", "error", err)
		http.Error(w, "Failed to load goal", http.StatusInternalServerError)
		return
	}

	// Render with the first snapshot when it arrives in time. The stream
	// sends the current state on connect, so nothing is lost by taking it.
	var state service.ResultState
	select {
	case state = <-page.Updates():
	case <-time.After(firstStateWait):
		state = page.State()
	}

	var proofs []service.ProofLink
	if state.HasGoal {
		proofs, err = h.proofService.Proofs(r.Context(), state.GoalID)
		if err != nil {
			slog.Error("failed to list proofs", "error", err, "goal_id", state.GoalID)
		}
	}

	ui.Render(w, r, views.GoalResultPage(h.resultData(page.ID, state, proofs)))
}

// Events streams the page state as server-sent events. The page is closed
// when the client goes away.
func (h *GoalResultHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	page, release, err := h.resultService.Attach(id)
	if err != nil {
		http.Error(w, "Result page not found", http.StatusNotFound)
		return
	}
	defer h.resultService.Close(id)
	defer release()

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(state service.ResultState) bool {
		var buf bytes.Buffer
		err := views.ResultState(h.resultData(id, state, nil)).Render(r.Context(), &buf)
		if err != nil {
			slog.Error("failed to render result state", "error", err, "page_id", id)
			return false
		}
		err = writeEvent(w, "state", buf.String())
		if err == nil {
			err = rc.Flush()
		}
		return err == nil
	}

	if !send(page.State()) {
		return
	}

	keepAlive := time.NewTicker(keepAlivePeriod)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-page.Done():
			return
		case state := <-page.Updates():
			if !send(state) {
				return
			}
		case <-keepAlive.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			if err != nil || rc.Flush() != nil {
				return
			}
		}
	}
}

// UploadProof starts the review for the selected proof and returns the
// pending state. Archiving the file is best-effort.
func (h *GoalResultHandler) UploadProof(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	page, err := h.resultService.Page(id)
	if err != nil {
		h.toastOnly(w, r, views.ToastError, msgPageExpired)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProofRequest)
	file, header, err := r.FormFile("proof")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.toastOnly(w, r, views.ToastError, msgProofTooBig)
			return
		}
		h.toastOnly(w, r, views.ToastWarning, msgNoProof)
		return
	}
	_ = file.Close()

	err = page.SubmitProof(header.Filename)
	if err != nil {
		h.toastOnly(w, r, views.ToastError, msgPageExpired)
		return
	}

	state := page.State()

	_, err = h.proofService.Archive(r.Context(), state.GoalID, header)
	switch {
	case errors.Is(err, service.ErrInvalidProof):
		slog.Warn("proof not archived", "error", err, "page_id", id)
	case err != nil:
		slog.Error("failed to archive proof", "error", err, "page_id", id)
	}

	ui.Render(w, r, views.ResultState(h.resultData(id, state, nil)))
}

// toastOnly leaves the page content alone and shows a toast.
func (h *GoalResultHandler) toastOnly(w http.ResponseWriter, r *http.Request, kind views.ToastKind, message string) {
	w.Header().Set("HX-Reswap", "none")
	ui.Toast(w, r, kind, message)
}

func (h *GoalResultHandler) resultData(pageID string, state service.ResultState, proofs []service.ProofLink) views.ResultData {
	data := views.ResultData{
		PageID:     pageID,
		Views:      state.Views,
		HasGoal:    state.HasGoal,
		Status:     state.Status,
		ProofName:  state.ProofName,
		LoadFailed: state.LoadErr != nil,
	}
	for _, p := range proofs {
		data.Proofs = append(data.Proofs, views.ProofItem{
			Name:       p.Name,
			URL:        p.URL,
			UploadedAt: p.CreatedAt.In(h.loc).Format("2006-01-02 15:04"),
		})
	}
	return data
}

// writeEvent writes one server-sent event. Multi-line data is split into
// one data field per line.
func writeEvent(w io.Writer, event, data string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
