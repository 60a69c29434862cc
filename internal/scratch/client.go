package scratch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is where a local SCRATCH installation serves its REST API.
const DefaultBaseURL = "http://localhost:8080/APIV2"

// Detail levels accepted by endpoints that take a level query parameter.
const (
	LevelBasic = ""
	LevelAll   = "ALL"
)

// Client is the typed surface of the SCRATCH REST API used by the workflow.
// All methods return *APIError (via errors.As) on a non-2xx response.
type Client interface {
	GetSystemProperties(ctx context.Context) (*SystemProperties, error)
	GetProjects(ctx context.Context) ([]Project, error)
	GetCurrentProject(ctx context.Context) (*Project, error)
	EnterProject(ctx context.Context, name string) error
	ExitProject(ctx context.Context) error
	GetGroups(ctx context.Context, level string) ([]Group, error)
	SelectGroup(ctx context.Context, groupID, level string) (*Group, error)
	GetCurrentConstruct(ctx context.Context, level string) (*Construct, error)
	RenderSnapshot(ctx context.Context, snap ImageSnapshot) (*Snapshot, error)
	GetRenderQueue(ctx context.Context) ([]RenderQueueItem, error)
	AddRenderQueueItem(ctx context.Context, outputID string) (*RenderQueueItem, error)
	StartRenderQueueItem(ctx context.Context, outputID string, deleteExisting bool) (*RenderQueueItem, error)
	StartRender(ctx context.Context, deleteExisting bool) error
	EnterPlayer(ctx context.Context, constructID string) error
	EnterPlayerCurrent(ctx context.Context) error
	SetPlaymode(ctx context.Context, playmode PlaymodeData) error
}

// Snapshot is the raw result of a render snapshot request. Data is only an
// image when ContentType declares one; callers must check before persisting.
type Snapshot struct {
	Data        []byte
	ContentType string
}

// IsImage reports whether the server declared image data in the response.
func (s *Snapshot) IsImage() bool {
	return strings.HasPrefix(s.ContentType, "image/")
}

// HTTPClient talks to a SCRATCH installation over its REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, logger *slog.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (c *HTTPClient) GetSystemProperties(ctx context.Context) (*SystemProperties, error) {
	var props SystemProperties
	if err := c.doJSON(ctx, http.MethodGet, "/system/properties", nil, nil, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

func (c *HTTPClient) GetProjects(ctx context.Context) ([]Project, error) {
	var list ProjectList
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Projects, nil
}

func (c *HTTPClient) GetCurrentProject(ctx context.Context) (*Project, error) {
	var proj Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects/current", nil, nil, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

func (c *HTTPClient) EnterProject(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/application/project/enter", nil, enterProjectRequest{Name: name}, nil)
}

func (c *HTTPClient) ExitProject(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/application/project/exit", nil, nil, nil)
}

func (c *HTTPClient) GetGroups(ctx context.Context, level string) ([]Group, error) {
	var list GroupList
	if err := c.doJSON(ctx, http.MethodGet, "/projects/groups", levelQuery(level), nil, &list); err != nil {
		return nil, err
	}
	return list.Groups, nil
}

func (c *HTTPClient) SelectGroup(ctx context.Context, groupID, level string) (*Group, error) {
	var group Group
	path := "/projects/groups/" + url.PathEscape(groupID) + "/select"
	if err := c.doJSON(ctx, http.MethodPost, path, levelQuery(level), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *HTTPClient) GetCurrentConstruct(ctx context.Context, level string) (*Construct, error) {
	var construct Construct
	if err := c.doJSON(ctx, http.MethodGet, "/projects/constructs/current", levelQuery(level), nil, &construct); err != nil {
		return nil, err
	}
	return &construct, nil
}

// RenderSnapshot asks the server to render a still frame of a shot. The
// response body is returned raw together with the declared content type;
// on error responses the body is folded into the APIError instead.
func (c *HTTPClient) RenderSnapshot(ctx context.Context, snap ImageSnapshot) (*Snapshot, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/application/render/snapshot", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}

	return &Snapshot{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *HTTPClient) GetRenderQueue(ctx context.Context) ([]RenderQueueItem, error) {
	var queue []RenderQueueItem
	if err := c.doJSON(ctx, http.MethodGet, "/application/render/queue", nil, nil, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

func (c *HTTPClient) AddRenderQueueItem(ctx context.Context, outputID string) (*RenderQueueItem, error) {
	var item RenderQueueItem
	path := "/application/render/queue/" + url.PathEscape(outputID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) StartRenderQueueItem(ctx context.Context, outputID string, deleteExisting bool) (*RenderQueueItem, error) {
	var item RenderQueueItem
	path := "/application/render/queue/" + url.PathEscape(outputID)
	query := url.Values{"delete_existing_media": {strconv.FormatBool(deleteExisting)}}
	if err := c.doJSON(ctx, http.MethodPost, path, query, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) StartRender(ctx context.Context, deleteExisting bool) error {
	return c.doJSON(ctx, http.MethodPost, "/application/render/start", nil, deleteMediaData{DeleteExistingMedia: deleteExisting}, nil)
}

func (c *HTTPClient) EnterPlayer(ctx context.Context, constructID string) error {
	path := "/application/player/timeline/" + url.PathEscape(constructID)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil, nil)
}

func (c *HTTPClient) EnterPlayerCurrent(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/application/player/timeline/current", nil, nil, nil)
}

func (c *HTTPClient) SetPlaymode(ctx context.Context, playmode PlaymodeData) error {
	return c.doJSON(ctx, http.MethodPut, "/application/player/playmode", nil, playmode, nil)
}

// doJSON performs a JSON request against the API and decodes the response
// into out when out is non-nil. Non-2xx responses become an *APIError.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.setAuth(req)

	if c.logger != nil {
		c.logger.Debug("scratch api request", "method", method, "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func levelQuery(level string) url.Values {
	if level == "" {
		return nil
	}
	return url.Values{"level": {level}}
}

// newAPIError builds an APIError from an error response, pulling the reason
// out of the server's JSON error envelope when one is present.
func newAPIError(status int, body []byte) *APIError {
	reason := http.StatusText(status)
	var envelope struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			reason = envelope.Message
		} else if envelope.Detail != "" {
			reason = envelope.Detail
		}
	}
	return &APIError{
		StatusCode: status,
		Reason:     reason,
		Body:       string(body),
	}
}
