package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/render"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/types"
)

// CreateResumeRequest is the request body for POST /resumes
type CreateResumeRequest struct {
	Title   string          `json:"title"`
	Variant string          `json:"variant,omitempty"`
	Theme   string          `json:"theme,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// UpdateStyleRequest is the request body for PUT /resumes/{id}/style
type UpdateStyleRequest struct {
	Variant string `json:"variant"`
	Theme   string `json:"theme"`
}

// ownedResume loads a resume and verifies the authenticated user owns it.
// Foreign resumes read as not found so ownership can't be probed.
func (s *Server) ownedResume(w http.ResponseWriter, r *http.Request) (*db.Resume, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return nil, false
	}

	resume, err := s.db.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if resume == nil || resume.UserID != userID {
		notFound := &ErrResumeNotFound{ResumeID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, false
	}
	return resume, true
}

// handleCreateResume stores a new resume
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if _, err := types.ParseResumeData(req.Data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume data: "+err.Error())
		return
	}

	variant, theme := normalizeStyle(req.Variant, req.Theme)

	id, err := s.db.CreateResume(r.Context(), userID, req.Title, variant, theme, req.Data)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleListResumes lists the authenticated user's resumes
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resumes, err := s.db.ListResumes(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resumes == nil {
		resumes = []db.ResumeSummary{}
	}
	s.jsonResponse(w, http.StatusOK, resumes)
}

// handleGetResume returns a stored resume
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleUpdateResumeData replaces the resume payload
func (s *Server) handleUpdateResumeData(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var data json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if _, err := types.ParseResumeData(data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid resume data: "+err.Error())
		return
	}

	if err := s.db.UpdateResumeData(r.Context(), resume.ID, data); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleUpdateResumeStyle updates variant and theme
func (s *Server) handleUpdateResumeStyle(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req UpdateStyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	variant, theme := normalizeStyle(req.Variant, req.Theme)

	if err := s.db.UpdateResumeStyle(r.Context(), resume.ID, variant, theme); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleDeleteResume deletes a resume
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteResume(r.Context(), resume.ID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// normalizeStyle coerces stored style values: unknown variants fall back to
// the default and anything but dark reads as light.
func normalizeStyle(variant, theme string) (string, string) {
	v := types.VariantID(variant)
	if !v.Known() {
		v = types.DefaultVariant
	}
	t := types.ThemeLight
	if theme == string(types.ThemeDark) {
		t = types.ThemeDark
	}
	return string(v), string(t)
}

// buildDocument renders a resume record into its layout document.
func buildDocument(resume *db.Resume) (*render.Document, error) {
	data, err := types.ParseResumeData(resume.Data)
	if err != nil {
		return nil, err
	}
	theme := types.Theme(resume.Theme)
	if theme != types.ThemeDark {
		theme = types.ThemeLight
	}
	return render.Render(data, types.VariantID(resume.Variant), theme)
}

// handleRenderDocument returns the deterministic layout document for a resume
func (s *Server) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	doc, err := buildDocument(resume)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleExportPDF renders a resume to PDF
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	doc, err := buildDocument(resume)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf, err := s.exporter.Export(r.Context(), doc)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "PDF export failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
