package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"goanova/app"
	apperrors "goanova/internal/errors"
	"goanova/internal/report"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req app.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	frame, err := a.reader.ReadData()
	if err != nil {
		a.respondError(w, err)
		return
	}

	run, err := a.anova.AnalyzeFrame(r.Context(), frame, req)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, run)
}

func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req app.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respondError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	frame, err := a.reader.ReadData()
	if err != nil {
		a.respondError(w, err)
		return
	}

	outcomes, err := a.sweep.Sweep(r.Context(), frame, req)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, outcomes)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	runs, err := a.anova.ListRuns(r.Context(), limit)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, runs)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.anova.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, run)
}

func (a *App) handleRunReport(w http.ResponseWriter, r *http.Request) {
	run, err := a.anova.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.Markdown(run)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(run))
}

func (a *App) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

func (a *App) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput, apperrors.CodeDesignInvalid,
		apperrors.CodeBalanceError, apperrors.CodeTypeError:
		status = http.StatusBadRequest
	case apperrors.CodeUnsupportedDesign:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeConfigInvalid:
		status = http.StatusServiceUnavailable
	}
	a.respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
