package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-studio/internal/chat"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/ingest"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/mutate"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/types"
)

// generateTimeout bounds a background generation. It exceeds the client
// polling ceiling so the server never abandons work the client still waits on.
const generateTimeout = 60 * time.Second

// GenerateRequest is the request body for generation endpoints. The job
// posting arrives as pasted text or a URL to fetch, not both.
type GenerateRequest struct {
	JobPosting string `json:"jobPosting,omitempty"`
	JobURL     string `json:"jobUrl,omitempty"`
	Tone       string `json:"tone,omitempty"`
}

// GenerateResponse is returned for accepted generation requests. Count is
// the number of stored documents before this generation; the client polls
// the count endpoint until it exceeds this baseline.
type GenerateResponse struct {
	Status   string     `json:"status"`
	Baseline int        `json:"baseline"`
	Usage    chat.Usage `json:"usage"`
}

// knownFeature reports whether a feature name is one the limiter tracks.
func knownFeature(feature string) bool {
	switch feature {
	case db.FeatureCoverLetter, db.FeatureSkillMap, db.FeatureChatEdit,
		db.FeatureAnalysis, db.FeatureRewrite:
		return true
	}
	return false
}

// resolvePosting turns the request's posting input into plain text.
func resolvePosting(ctx context.Context, req *GenerateRequest) (string, error) {
	if req.JobPosting != "" && req.JobURL != "" {
		return "", fmt.Errorf("jobPosting and jobUrl are mutually exclusive")
	}
	if req.JobURL != "" {
		posting, err := ingest.FromURL(ctx, req.JobURL, nil)
		if err != nil {
			return "", err
		}
		return posting.Text, nil
	}
	posting, err := ingest.FromText(req.JobPosting)
	if err != nil {
		return "", err
	}
	return posting.Text, nil
}

// startGeneration runs the shared front half of the async generation
// endpoints: consume allowance, snapshot the baseline count, mark pending,
// and kick off the background worker.
func (s *Server) startGeneration(w http.ResponseWriter, r *http.Request, resume *db.Resume, feature string, run func(ctx context.Context) (string, string, error)) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	usage, err := s.limiter.Consume(r.Context(), userID, feature)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	baseline, err := s.db.CountGenerations(r.Context(), resume.ID, feature)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.pending.Begin(resume.ID.String(), feature)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		defer s.pending.Resolve(resume.ID.String(), feature)

		content, model, err := run(ctx)
		if err != nil {
			log.Printf("[GENERATE] %s for resume %s failed: %v", feature, resume.ID, err)
			return
		}
		if _, err := s.db.SaveGeneration(ctx, resume.ID, feature, content, model); err != nil {
			log.Printf("[GENERATE] failed to save %s for resume %s: %v", feature, resume.ID, err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, GenerateResponse{
		Status:   "pending",
		Baseline: baseline,
		Usage:    usage,
	})
}

// handleGenerateCoverLetter starts a cover letter generation
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	posting, err := resolvePosting(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	prompt := prompts.CoverLetter(string(resume.Data), posting, req.Tone)
	s.startGeneration(w, r, resume, db.FeatureCoverLetter, func(ctx context.Context) (string, string, error) {
		result, err := s.llm.GenerateContent(ctx, prompt, llm.TierStandard)
		if err != nil {
			return "", "", err
		}
		return result.Text, result.Model, nil
	})
}

// handleGenerateSkillMap starts a skill map generation
func (s *Server) handleGenerateSkillMap(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	posting, err := resolvePosting(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	prompt := prompts.SkillMap(string(resume.Data), posting)
	s.startGeneration(w, r, resume, db.FeatureSkillMap, func(ctx context.Context) (string, string, error) {
		result, err := s.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return "", "", err
		}
		return result.Text, result.Model, nil
	})
}

// handleGenerateAnalysis starts a resume-vs-posting analysis
func (s *Server) handleGenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	posting, err := resolvePosting(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	prompt := prompts.Analysis(string(resume.Data), posting)
	s.startGeneration(w, r, resume, db.FeatureAnalysis, func(ctx context.Context) (string, string, error) {
		result, err := s.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
		if err != nil {
			return "", "", err
		}
		return result.Text, result.Model, nil
	})
}

// handleGenerateRewrite starts a full tailored-resume generation. The model
// output must parse as a resume document before it is stored; a malformed
// rewrite is discarded rather than saved where a later load would reject it.
func (s *Server) handleGenerateRewrite(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	posting, err := resolvePosting(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	prompt := prompts.Rewrite(string(resume.Data), posting)
	s.startGeneration(w, r, resume, db.FeatureRewrite, func(ctx context.Context) (string, string, error) {
		result, err := s.llm.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			return "", "", err
		}
		normalized, err := normalizeRewriteOutput(result.Text)
		if err != nil {
			return "", "", err
		}
		return normalized, result.Model, nil
	})
}

// normalizeRewriteOutput checks that a rewrite result is a loadable resume
// document and re-serializes it with bullets and content unions normalized.
func normalizeRewriteOutput(text string) (string, error) {
	data, err := types.ParseResumeData([]byte(text))
	if err != nil {
		return "", fmt.Errorf("rewrite output is not a valid resume document: %w", err)
	}
	out, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize rewrite output: %w", err)
	}
	return string(out), nil
}

// handleGetCoverLetter returns the latest cover letter
func (s *Server) handleGetCoverLetter(w http.ResponseWriter, r *http.Request) {
	s.handleGetGeneration(w, r, db.FeatureCoverLetter)
}

// handleGetSkillMap returns the latest skill map
func (s *Server) handleGetSkillMap(w http.ResponseWriter, r *http.Request) {
	s.handleGetGeneration(w, r, db.FeatureSkillMap)
}

func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request, feature string) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	gen, err := s.db.GetLatestGeneration(r.Context(), resume.ID, feature)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gen == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no %s generated yet", feature))
		return
	}
	s.jsonResponse(w, http.StatusOK, gen)
}

// handleGetAnalysis returns the latest analysis
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	s.handleGetGeneration(w, r, db.FeatureAnalysis)
}

// handleGetRewrite returns the latest rewritten resume
func (s *Server) handleGetRewrite(w http.ResponseWriter, r *http.Request) {
	s.handleGetGeneration(w, r, db.FeatureRewrite)
}

// handleCountCoverLetters is the cover letter poll read endpoint
func (s *Server) handleCountCoverLetters(w http.ResponseWriter, r *http.Request) {
	s.handleCountGenerations(w, r, db.FeatureCoverLetter)
}

// handleCountSkillMaps is the skill map poll read endpoint
func (s *Server) handleCountSkillMaps(w http.ResponseWriter, r *http.Request) {
	s.handleCountGenerations(w, r, db.FeatureSkillMap)
}

// handleCountAnalyses is the analysis poll read endpoint
func (s *Server) handleCountAnalyses(w http.ResponseWriter, r *http.Request) {
	s.handleCountGenerations(w, r, db.FeatureAnalysis)
}

// handleCountRewrites is the rewrite poll read endpoint
func (s *Server) handleCountRewrites(w http.ResponseWriter, r *http.Request) {
	s.handleCountGenerations(w, r, db.FeatureRewrite)
}

func (s *Server) handleCountGenerations(w http.ResponseWriter, r *http.Request, feature string) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	count, err := s.db.CountGenerations(r.Context(), resume.ID, feature)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	_, pending := s.pending.Pending(resume.ID.String(), feature)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":   count,
		"pending": pending,
	})
}

// TailorBundleResponse carries the results of a parallel tailor run.
type TailorBundleResponse struct {
	CoverLetter string `json:"coverLetter"`
	SkillMap    string `json:"skillMap"`
}

// handleTailorBundle generates a cover letter and skill map for the same
// posting in parallel and returns both.
func (s *Server) handleTailorBundle(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	posting, err := resolvePosting(r.Context(), &req)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, feature := range []string{db.FeatureCoverLetter, db.FeatureSkillMap} {
		if _, err := s.limiter.Consume(r.Context(), userID, feature); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	var bundle TailorBundleResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		result, err := s.llm.GenerateContent(ctx, prompts.CoverLetter(string(resume.Data), posting, req.Tone), llm.TierStandard)
		if err != nil {
			return fmt.Errorf("cover letter: %w", err)
		}
		bundle.CoverLetter = result.Text
		_, saveErr := s.db.SaveGeneration(ctx, resume.ID, db.FeatureCoverLetter, result.Text, result.Model)
		return saveErr
	})
	g.Go(func() error {
		result, err := s.llm.GenerateJSON(ctx, prompts.SkillMap(string(resume.Data), posting), llm.TierStandard)
		if err != nil {
			return fmt.Errorf("skill map: %w", err)
		}
		bundle.SkillMap = result.Text
		_, saveErr := s.db.SaveGeneration(ctx, resume.ID, db.FeatureSkillMap, result.Text, result.Model)
		return saveErr
	})
	if err := g.Wait(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, bundle)
}

// ChatEditRequest is the request body for POST /resumes/{id}/chat
type ChatEditRequest struct {
	Message string `json:"message"`
}

// ChatEditResponse reports the applied edit back to the client.
type ChatEditResponse struct {
	Applied  int             `json:"applied"`
	Skipped  int             `json:"skipped"`
	Warnings []string        `json:"warnings,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// handleChatEdit turns a chat instruction into a modification batch via the
// model, applies it, and persists the result.
func (s *Server) handleChatEdit(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ChatEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	if _, err := s.limiter.Consume(r.Context(), userID, db.FeatureChatEdit); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.llm.GenerateJSON(r.Context(), prompts.ChatEdit(string(resume.Data), req.Message), llm.TierStandard)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	report, warnings, err := s.applyModificationBatch(r.Context(), resume, []byte(result.Text))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.db.SaveChatMessage(r.Context(), resume.ID, "user", req.Message); err != nil {
		log.Printf("[CHAT] failed to save user message: %v", err)
	}
	summary := fmt.Sprintf("Applied %d change(s), skipped %d.", report.Applied, report.Skipped)
	if _, err := s.db.SaveChatMessage(r.Context(), resume.ID, "assistant", summary); err != nil {
		log.Printf("[CHAT] failed to save assistant message: %v", err)
	}

	s.respondWithReport(w, report, warnings)
}

// handleApplyModifications applies a client-supplied modification batch
func (s *Server) handleApplyModifications(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	report, warnings, err := s.applyModificationBatch(r.Context(), resume, body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondWithReport(w, report, warnings)
}

// applyModificationBatch validates, applies, and persists a batch against
// the stored resume.
func (s *Server) applyModificationBatch(ctx context.Context, resume *db.Resume, batch []byte) (mutate.Report, []string, error) {
	ops, warnings, err := schemas.FilterModifications(batch)
	if err != nil {
		return mutate.Report{}, nil, err
	}

	data, err := types.ParseResumeData(resume.Data)
	if err != nil {
		return mutate.Report{}, nil, err
	}

	report := mutate.Apply(*data, ops)
	warnings = append(warnings, report.Warnings...)

	updated, err := json.Marshal(report.Data)
	if err != nil {
		return mutate.Report{}, nil, fmt.Errorf("failed to serialize updated resume: %w", err)
	}
	if err := s.db.UpdateResumeData(ctx, resume.ID, updated); err != nil {
		return mutate.Report{}, nil, err
	}
	return report, warnings, nil
}

func (s *Server) respondWithReport(w http.ResponseWriter, report mutate.Report, warnings []string) {
	data, err := json.Marshal(report.Data)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, ChatEditResponse{
		Applied:  report.Applied,
		Skipped:  report.Skipped,
		Warnings: warnings,
		Data:     data,
	})
}

// handleChatHistory returns the stored chat turns for a resume
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.ownedResume(w, r)
	if !ok {
		return
	}

	messages, err := s.db.ListChatMessages(r.Context(), resume.ID, 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if messages == nil {
		messages = []db.ChatMessage{}
	}
	s.jsonResponse(w, http.StatusOK, messages)
}

// handleGetUsage reports the caller's remaining daily allowance for a feature
func (s *Server) handleGetUsage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	feature := r.PathValue("feature")
	if !knownFeature(feature) {
		s.errorResponse(w, http.StatusBadRequest, "unknown feature: "+feature)
		return
	}

	usage, err := s.limiter.Peek(r.Context(), userID, feature)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, usage)
}
