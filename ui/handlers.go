package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datascout/adapters/excel"
	"datascout/domain/analysis"
	"datascout/domain/core"
	apperrors "datascout/internal/errors"
)

// maxUploadBytes caps uploaded dataset files at 50MB.
const maxUploadBytes = 50 * 1024 * 1024

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a multipart dataset file, runs the full pipeline on
// it, and returns the completed run.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("dataset")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		a.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("File size (%.1f MB) exceeds the 50MB limit", float64(header.Size)/(1024*1024)))
		return
	}

	filename := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".xlsx", ".xls":
	default:
		a.writeError(w, http.StatusBadRequest, "Only Excel (.xlsx, .xls) and CSV (.csv) files are allowed")
		return
	}

	// The reader derives the dataset name from the file path, so the
	// uploaded name is preserved inside a scratch directory.
	tmpDir, err := os.MkdirTemp("", "datascout-upload-")
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filename)
	dst, err := os.Create(tmpPath)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		a.writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	dst.Close()

	reader := excel.NewDataReader(tmpPath, a.maxRows)
	ds, err := reader.Read(tmpPath)
	if err != nil {
		a.log.Warn("upload rejected: %v", err)
		a.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to read dataset: %v", err))
		return
	}

	result := a.supervisor.AnalyzeDataset(r.Context(), ds)
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			a.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := a.repo.List(r.Context(), limit)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, run)
}

func (a *App) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{
		"id":      string(run.ID),
		"status":  string(run.Status),
		"summary": a.supervisor.Summary(run),
	})
}

// handleGeneratePRD builds the PRD from the run's cached analyses. A run
// that has not completed the required stages gets a conflict response with
// the same error document the run carries.
func (a *App) handleGeneratePRD(w http.ResponseWriter, r *http.Request) {
	run, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	prd := a.supervisor.GeneratePRD(r.Context(), run)
	status := http.StatusOK
	if prd.Status == "error" && !run.ReadyForPRD() {
		status = http.StatusConflict
	}
	a.writeJSON(w, status, prd)
}

func (a *App) handleDownloadPRD(w http.ResponseWriter, r *http.Request) {
	run, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	if run.PRD == nil {
		a.writeError(w, http.StatusNotFound, "PRD not generated yet")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", run.DatasetName+"_prd.md"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(run.PRD.PRDDocument))
}

func (a *App) handlePRDHTML(w http.ResponseWriter, r *http.Request) {
	run, ok := a.loadRun(w, r)
	if !ok {
		return
	}
	if run.PRD == nil {
		a.writeError(w, http.StatusNotFound, "PRD not generated yet")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(renderMarkdown(run.PRD.PRDDocument))
}

// renderMarkdown converts the PRD markdown to HTML for the web view.
func renderMarkdown(doc string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.ToHTML([]byte(doc), p, renderer)
}

// loadRun resolves the {id} route parameter to a stored run, writing the
// error response itself when it cannot.
func (a *App) loadRun(w http.ResponseWriter, r *http.Request) (*analysis.PipelineResult, bool) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid run id")
		return nil, false
	}
	run, err := a.repo.Get(r.Context(), id)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			a.writeError(w, http.StatusNotFound, "Run not found")
		} else {
			a.writeError(w, http.StatusInternalServerError, "Failed to load run")
		}
		return nil, false
	}
	return run, true
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}
