package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/navigator-ai/navcore/internal/agent"
	"github.com/navigator-ai/navcore/internal/compact"
	"github.com/navigator-ai/navcore/internal/llm"
	"github.com/navigator-ai/navcore/internal/prompt"
	"github.com/navigator-ai/navcore/internal/snapshot"
	"github.com/navigator-ai/navcore/internal/task"
)

type createTaskRequest struct {
	Task string `json:"task"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Task == "" {
		jsonError(w, "task is required", http.StatusBadRequest)
		return
	}

	t, err := s.store.Create(r.Context(), req.Task)
	if err != nil {
		s.log.Error("create task failed", "error", err)
		jsonError(w, "failed to create task", http.StatusInternalServerError)
		return
	}

	s.log.Info("task created", "task_id", t.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"task_id":    t.ID,
		"status":     "created",
		"message":    "Task created",
		"created_at": t.CreatedAt,
	})
}

type domData struct {
	URL       string `json:"url"`
	HTML      string `json:"html,omitempty"`
	Title     string `json:"title,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type updateTaskRequest struct {
	TaskID     string          `json:"task_id"`
	DOMData    domData         `json:"dom_data"`
	Result     json.RawMessage `json:"result,omitempty"`
	Iterations int             `json:"iterations,omitempty"`
	Structure  json.RawMessage `json:"structure,omitempty"`
}

type updateTaskResponse struct {
	TaskID  string          `json:"task_id"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  *agent.Response `json:"result"`
}

// handleUpdateTask runs one planning step: compact the submitted page,
// build the prompt with task history, call the model, and return the
// next actions with concrete locators attached.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.TaskID == "" {
		jsonError(w, "task_id is required", http.StatusBadRequest)
		return
	}

	t, err := s.store.Get(r.Context(), req.TaskID)
	if errors.Is(err, task.ErrNotFound) {
		jsonError(w, "task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("load task failed", "task_id", req.TaskID, "error", err)
		jsonError(w, "failed to load task", http.StatusInternalServerError)
		return
	}

	graph, err := buildGraph(req.DOMData.HTML, req.Structure)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := compact.New(s.compactConfig()).Compact(graph)

	history, err := s.store.History(r.Context(), t.ID)
	if err != nil {
		s.log.Error("load history failed", "task_id", t.ID, "error", err)
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	lastResult := ""
	if len(req.Result) > 0 && string(req.Result) != "null" {
		lastResult = string(req.Result)
	}
	userMsg := prompt.BuildUserMessage(t.Task, req.DOMData.URL, result.Summary, history, lastResult)

	if s.snaps != nil {
		if _, err := s.snaps.Save(snapshot.Capture{
			TaskID:    t.ID,
			URL:       req.DOMData.URL,
			HTML:      req.DOMData.HTML,
			Structure: req.Structure,
			Prompt:    userMsg,
		}); err != nil {
			s.log.Warn("snapshot save failed", "task_id", t.ID, "error", err)
		}
	}

	resp, err := s.generateWithRetry(r.Context(), userMsg)
	if err != nil {
		if resp == nil {
			s.log.Error("model call failed", "task_id", t.ID, "error", err)
			jsonError(w, "model call failed", http.StatusBadGateway)
			return
		}
		// Unparsable reply: keep the fallback response and move on.
		s.log.Warn("model reply unparsable", "task_id", t.ID, "error", err)
	}
	if resp == nil {
		jsonError(w, "model returned no response", http.StatusBadGateway)
		return
	}

	agent.ValidateResponse(resp)
	agent.Resolve(resp, result.XPathMap, result.SelectorMap)

	if err := s.store.AppendHistory(r.Context(), t.ID, agent.HistoryEntry{
		URL:     req.DOMData.URL,
		Actions: resp.Actions,
	}); err != nil {
		s.log.Error("append history failed", "task_id", t.ID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updateTaskResponse{
		TaskID:  t.ID,
		Status:  "success",
		Message: "Task updated",
		Result:  resp,
	})
}

func (s *Server) generateWithRetry(ctx context.Context, userMsg string) (*agent.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= llm.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(llm.Backoff(attempt - 1)):
			}
		}
		resp, err := s.model.Generate(ctx, prompt.SystemPrompt, userMsg)
		if err == nil || resp != nil {
			return resp, err
		}
		if !llm.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Server) handleTaskHistory(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	if _, err := s.store.Get(r.Context(), taskID); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			jsonError(w, "task not found", http.StatusNotFound)
			return
		}
		s.log.Error("load task failed", "task_id", taskID, "error", err)
		jsonError(w, "failed to load task", http.StatusInternalServerError)
		return
	}

	history, err := s.store.History(r.Context(), taskID)
	if err != nil {
		s.log.Error("load history failed", "task_id", taskID, "error", err)
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"task_id": taskID,
		"history": history,
	})
}
