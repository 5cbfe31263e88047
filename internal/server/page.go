package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pthm/xloss"
	"github.com/pthm/xloss/internal/demo"
	"github.com/pthm/xloss/internal/logger"
	"github.com/vmihailenco/msgpack/v5"
)

const msgpackContentType = "application/msgpack"

func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	if err := xloss.Render(w, r, h.page.Component()); err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// inject reads the form fields content, css, html and target. Without a
// target field the HX-Target header is used. The client is told to reload
// since the response changes head and body alike.
func (h *Handler) inject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	target := r.PostForm.Get("target")
	if target == "" {
		target = xloss.TargetID(r)
	}

	snap, err := h.page.Inject(r.Context(),
		r.PostForm.Get("content"),
		r.PostForm.Get("css"),
		r.PostForm.Get("html"),
		target,
	)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	h.afterInject(w, r, snap)
}

func (h *Handler) demoInteractive(w http.ResponseWriter, r *http.Request) {
	snap, err := demo.AddInteractive(r.Context(), h.page)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	w.Header().Set("HX-Refresh", "true")
	writeJSON(w, http.StatusOK, snap.Redacted())
}

func (h *Handler) afterInject(w http.ResponseWriter, r *http.Request, snap xloss.Snapshot) {
	if h.demo {
		if err := demo.ShowSnapshot(h.page, snap); err != nil {
			logger.FromRequest(r).Warn().Err(err).Msg("update snapshot panel")
		}
	}
	w.Header().Set("HX-Refresh", "true")
	writeJSON(w, http.StatusOK, snap.Redacted())
}

// getSnapshot answers with msgpack when the client accepts it, JSON
// otherwise. Protected contents are never sent.
func (h *Handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.page.Snapshot().Redacted()

	if !strings.Contains(r.Header.Get("Accept"), msgpackContentType) {
		writeJSON(w, http.StatusOK, snap)
		return
	}

	b, err := msgpack.Marshal(snap)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", msgpackContentType)
	w.Write(b)
}

func (h *Handler) getVars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.page.AllVars())
}

// putVar sets the variable to the form field value.
func (h *Handler) putVar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.page.AddVar(chi.URLParam(r, "name"), r.PostForm.Get("value")); err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, h.page.AllVars())
}

func (h *Handler) deleteVar(w http.ResponseWriter, r *http.Request) {
	if !h.page.RemoveVar(chi.URLParam(r, "name")) {
		writeError(w, r, http.StatusNotFound, ErrVarNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
