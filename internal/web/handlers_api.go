package web

import (
	"net/http"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/go-chi/chi/v5"
)

// FileResponse describes a loaded file. RowErrors is the complete list.
type FileResponse struct {
	SessionID   string            `json:"session_id"`
	FileName    string            `json:"file_name"`
	Encoding    core.Encoding     `json:"encoding"`
	Processed   bool              `json:"processed"`
	Summary     core.Summary      `json:"summary"`
	ColumnStats []core.ColumnStat `json:"column_stats"`
	RowErrors   []*core.RowError  `json:"row_errors"`
}

// ProcessResponse reports the outcome of normalization.
type ProcessResponse struct {
	SessionID string            `json:"session_id"`
	Changed   int               `json:"changed"`
	Preview   core.TablePreview `json:"preview"`
}

// StatusResponse exposes run limiter capacity for monitoring.
type StatusResponse struct {
	Runs core.LimiterStatus `json:"runs"`
}

func toFileResponse(sess *core.Session) FileResponse {
	rowErrors := sess.Parsed.RowErrors
	if rowErrors == nil {
		rowErrors = []*core.RowError{}
	}
	return FileResponse{
		SessionID:   sess.ID,
		FileName:    sess.FileName,
		Encoding:    sess.Encoding,
		Processed:   sess.Processed(),
		Summary:     core.Summarize(sess.Parsed),
		ColumnStats: core.ColumnStats(sess.Parsed),
		RowErrors:   rowErrors,
	}
}

// handleAPIUpload loads a file into a new session.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	sess, err := s.service.Load(withClient(r), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/files/"+sess.ID)
	writeJSON(w, http.StatusCreated, toFileResponse(sess))
}

// handleAPIFile returns the diagnostics of a session.
func (s *Server) handleAPIFile(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(sess))
}

// handleAPIProcess normalizes a session and returns the change count and a
// preview of the first rows.
func (s *Server) handleAPIProcess(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Process(withClient(r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProcessResponse{
		SessionID: sess.ID,
		Changed:   sess.Changed,
		Preview:   core.PreviewTable(sess.Normalized, core.PreviewRowLimit, core.PreviewCellWidth),
	})
}

// handleAPIDownload sends the processed file.
func (s *Server) handleAPIDownload(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, chi.URLParam(r, "id"))
}

// handleAPIDelete discards a session. Unknown IDs are not an error.
func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	s.service.Discard(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleStatus returns the current state of the run limiter.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Runs: s.service.LimiterStatus()})
}
