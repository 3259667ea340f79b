package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/dangerclosesec/tracker/internal/domain"
	"github.com/dangerclosesec/tracker/internal/serializer"
	"github.com/dangerclosesec/tracker/internal/service"
	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
)

type TrackerHandler struct {
	tracker *service.TrackerService
}

func NewTrackerHandler(tracker *service.TrackerService) *TrackerHandler {
	return &TrackerHandler{
		tracker: tracker,
	}
}

func (h *TrackerHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.tracker.GetOrganization(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, org)
}

func (h *TrackerHandler) ListOrganizationProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.tracker.ListOrganizationProjects(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, projects)
}

func (h *TrackerHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	include, err := includeParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	project, err := h.tracker.GetProjectTree(r.Context(), id, include)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, project)
}

// includeParam parses ?include=tasks,comments.
func includeParam(r *http.Request) (service.ProjectInclude, error) {
	var include service.ProjectInclude
	raw := r.URL.Query().Get("include")
	if raw == "" {
		return include, nil
	}

	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "tasks":
			include.Tasks = true
		case "comments":
			include.Comments = true
		default:
			return include, fmt.Errorf("%w: unknown include %q", domain.ErrInvalidInput, part)
		}
	}
	return include, nil
}

func (h *TrackerHandler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	tasks, err := h.tracker.ListProjectTasks(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, tasks)
}

type CreateProjectRequest struct {
	OrgSlug     string           `json:"orgSlug"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DueDate     *serializer.Date `json:"dueDate"`
}

func (h *TrackerHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	project, err := h.tracker.CreateProject(r.Context(), service.CreateProjectInput{
		OrgSlug:     req.OrgSlug,
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate.Model(),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusCreated, project)
}

// UpdateProjectRequest keeps absent keys apart from explicit nulls so a PATCH
// only touches the fields it names.
type UpdateProjectRequest struct {
	Name    domain.Optional[string]           `json:"name"`
	Status  domain.Optional[string]           `json:"status"`
	DueDate domain.Optional[*serializer.Date] `json:"dueDate"`
}

func (h *TrackerHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input := service.UpdateProjectInput{
		ProjectID: id,
		Name:      req.Name,
		Status:    req.Status,
	}
	if due, ok := req.DueDate.Get(); ok {
		input.DueDate = domain.Some[*datatypes.Date](due.Model())
	}

	project, err := h.tracker.UpdateProject(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, project)
}

type CreateTaskRequest struct {
	Title         string `json:"title"`
	AssigneeEmail string `json:"assigneeEmail"`
}

func (h *TrackerHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	task, err := h.tracker.CreateTask(r.Context(), service.CreateTaskInput{
		ProjectID:     projectID,
		Title:         req.Title,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusCreated, task)
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (h *TrackerHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req UpdateTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	task, err := h.tracker.UpdateTaskStatus(r.Context(), taskID, req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, task)
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

// AddComment attributes the comment to the authenticated caller.
func (h *TrackerHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		handleError(w, r, domain.ErrMissingCaller)
		return
	}

	var req AddCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	comment, err := h.tracker.AddComment(r.Context(), service.AddCommentInput{
		TaskID:      taskID,
		Content:     req.Content,
		AuthorEmail: caller,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusCreated, comment)
}

func (h *TrackerHandler) ListTaskComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	comments, err := h.tracker.ListTaskComments(r.Context(), taskID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondWithModel(w, r, http.StatusOK, comments)
}
