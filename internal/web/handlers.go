package web

// handlers.go serves the browser pages. The current file lives in the
// session named by the csvclean_session cookie; each page redraws the full
// state of that session.

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/logging"
	"github.com/JonMunkholm/csvclean/internal/web/templates"
)

// multipartOverhead is the allowance for form boundaries and headers on top
// of the file size limit.
const multipartOverhead = 1 << 20

// handleIndex shows the upload form and, if the browser still has a live
// session, its diagnostics.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var data templates.PageData
	if id := sessionID(r); id != "" {
		if sess, err := s.service.Session(id); err == nil {
			data.Session = sess
		} else {
			s.clearSessionCookie(w)
		}
	}
	s.renderPage(w, r, http.StatusOK, data)
}

// handleUpload loads a new file, replacing the browser's previous one.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	sess, err := s.service.Replace(withClient(r), sessionID(r), header.Filename, file)
	if err != nil {
		s.clearSessionCookie(w)
		s.respondError(w, r, err)
		return
	}

	s.setSessionCookie(w, sess.ID)
	s.renderPage(w, r, http.StatusOK, templates.PageData{Session: sess})
}

// handleProcess normalizes the browser's current file.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Process(withClient(r), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, templates.PageData{Session: sess})
}

// handleDownload sends the processed file as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, sessionID(r))
}

// handleReset drops the browser's file and returns to the empty form.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.service.Discard(sessionID(r))
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// renderPage writes the full page with the given status.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data templates.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.IndexPage(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// formFile reads the "file" part of a multipart upload. The body is capped
// slightly above the file size limit; the service enforces the exact limit.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, core.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, core.ErrNoFile
		}
		return nil, nil, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, core.ErrNoFile
	}
	return file, header, nil
}

// download writes the export of session id as an attachment.
func (s *Server) download(w http.ResponseWriter, r *http.Request, id string) {
	exp, err := s.service.Export(withClient(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName})
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Content)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(exp.Content); err != nil {
		logging.FromContext(r.Context()).Warn("download write failed", "error", err)
	}
}
