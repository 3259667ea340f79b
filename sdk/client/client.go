package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config represents the configuration for the tracker client
type Config struct {
	// BaseURL is the base URL of the tracker API server
	BaseURL string
	// Token is an optional bearer token identifying the caller
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the tracker API client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new tracker client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

type Organization struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Project carries the computed task counters. DueDate is YYYY-MM-DD.
type Project struct {
	ID                 int64     `json:"id"`
	OrganizationID     int64     `json:"organizationId"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	DueDate            *string   `json:"dueDate"`
	CreatedAt          time.Time `json:"createdAt"`
	TaskCount          int64     `json:"taskCount"`
	CompletedTaskCount int64     `json:"completedTaskCount"`
	// Tasks is only populated by GetProjectTree
	Tasks []Task `json:"tasks,omitempty"`
}

type Task struct {
	ID            int64         `json:"id"`
	ProjectID     int64         `json:"projectId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	AssigneeEmail string        `json:"assigneeEmail"`
	CreatedAt     time.Time     `json:"createdAt"`
	Comments      []TaskComment `json:"comments,omitempty"`
}

type TaskComment struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"taskId"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GetOrganization retrieves an organization by slug
func (c *Client) GetOrganization(ctx context.Context, slug string) (*Organization, error) {
	if slug == "" {
		return nil, errors.New("slug is required")
	}

	var resp Organization
	if err := c.get(ctx, c.endpoint("organizations", slug), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListProjects retrieves the projects of an organization with their counters
func (c *Client) ListProjects(ctx context.Context, orgSlug string) ([]Project, error) {
	if orgSlug == "" {
		return nil, errors.New("slug is required")
	}

	var resp []Project
	if err := c.get(ctx, c.endpoint("organizations", orgSlug, "projects"), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetProject retrieves a project by id
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var resp Project
	if err := c.get(ctx, c.endpoint("projects", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProjectTree retrieves a project with its tasks embedded, and each task's
// comments when withComments is set
func (c *Client) GetProjectTree(ctx context.Context, id int64, withComments bool) (*Project, error) {
	include := "tasks"
	if withComments {
		include = "tasks,comments"
	}

	var resp Project
	if err := c.get(ctx, c.endpoint("projects", id)+"?include="+url.QueryEscape(include), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks retrieves the tasks of a project
func (c *Client) ListTasks(ctx context.Context, projectID int64) ([]Task, error) {
	var resp []Task
	if err := c.get(ctx, c.endpoint("projects", projectID, "tasks"), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	OrgSlug     string  `json:"orgSlug"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// CreateProject creates a new project in ACTIVE status
func (c *Client) CreateProject(ctx context.Context, req *CreateProjectRequest) (*Project, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.OrgSlug == "" || req.Name == "" {
		return nil, errors.New("orgSlug and name are required")
	}

	var resp Project
	if err := c.post(ctx, c.endpoint("projects"), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &resp, nil
}

// UpdateProjectRequest represents a partial project update. Nil fields are
// left untouched; ClearDueDate removes the due date.
type UpdateProjectRequest struct {
	Name         *string
	Status       *string
	DueDate      *string
	ClearDueDate bool
}

func (r UpdateProjectRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]interface{})
	if r.Name != nil {
		body["name"] = *r.Name
	}
	if r.Status != nil {
		body["status"] = *r.Status
	}
	switch {
	case r.ClearDueDate:
		body["dueDate"] = nil
	case r.DueDate != nil:
		body["dueDate"] = *r.DueDate
	}
	return json.Marshal(body)
}

// UpdateProject applies a partial update to a project
func (c *Client) UpdateProject(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	var resp Project
	if err := c.patch(ctx, c.endpoint("projects", id), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &resp, nil
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	Title         string `json:"title"`
	AssigneeEmail string `json:"assigneeEmail,omitempty"`
}

// CreateTask creates a new TODO task in a project
func (c *Client) CreateTask(ctx context.Context, projectID int64, req *CreateTaskRequest) (*Task, error) {
	if req == nil || req.Title == "" {
		return nil, errors.New("title is required")
	}

	var resp Task
	if err := c.post(ctx, c.endpoint("projects", projectID, "tasks"), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &resp, nil
}

// UpdateTaskStatus moves a task to the given status
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*Task, error) {
	var resp Task
	req := map[string]string{"status": status}
	if err := c.patch(ctx, c.endpoint("tasks", taskID, "status"), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return &resp, nil
}

// AddComment comments on a task as the caller identified by Config.Token
func (c *Client) AddComment(ctx context.Context, taskID int64, content string) (*TaskComment, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}

	var resp TaskComment
	req := map[string]string{"content": content}
	if err := c.post(ctx, c.endpoint("tasks", taskID, "comments"), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &resp, nil
}

// ListComments retrieves the comments on a task, oldest first
func (c *Client) ListComments(ctx context.Context, taskID int64) ([]TaskComment, error) {
	var resp []TaskComment
	if err := c.get(ctx, c.endpoint("tasks", taskID, "comments"), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// APIError defines a standardized error response from the API
type APIError struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"error"`
	Details    []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (Status: %d)", e.Message, strings.Join(e.Details, "; "), e.StatusCode)
	}
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// endpoint joins escaped path segments under /api.
func (c *Client) endpoint(segments ...interface{}) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, strings.TrimRight(c.config.BaseURL, "/"), "api")
	for _, s := range segments {
		switch v := s.(type) {
		case int64:
			parts = append(parts, strconv.FormatInt(v, 10))
		default:
			parts = append(parts, url.PathEscape(fmt.Sprint(v)))
		}
	}
	return strings.Join(parts, "/")
}

func (c *Client) get(ctx context.Context, endpoint string, resp interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, resp)
}

func (c *Client) post(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, req, resp)
}

func (c *Client) patch(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	return c.do(ctx, http.MethodPatch, endpoint, req, resp)
}

// do sends req as JSON when non-nil and unmarshals the response into resp
func (c *Client) do(ctx context.Context, method, endpoint string, req interface{}, resp interface{}) error {
	// Set up context with timeout
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req != nil {
		reqBody, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	// Check for non-success status code
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		// Try to decode error response
		var apiErr APIError
		if err := json.NewDecoder(httpResp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			// If we can't decode the error, create a generic one
			return &APIError{
				StatusCode: httpResp.StatusCode,
				Message:    fmt.Sprintf("request failed with status code %d", httpResp.StatusCode),
			}
		}

		apiErr.StatusCode = httpResp.StatusCode
		return &apiErr
	}

	if resp == nil {
		return nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
