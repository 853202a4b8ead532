package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "http://localhost:3010"

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []FieldError
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type envelope[T any] struct {
	Success    bool        `json:"success"`
	Data       T           `json:"data"`
	Message    string      `json:"message"`
	Pagination *Pagination `json:"pagination"`
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details []FieldError `json:"details"`
	} `json:"error"`
}

type CandidatePage struct {
	Items      []Candidate
	Pagination Pagination
}

// Client talks to the ATS REST API.
type Client struct {
	http *resty.Client
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out envelope[HealthStatus]
	if _, err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListCandidates(ctx context.Context, f FilterState) (*CandidatePage, error) {
	var out envelope[[]Candidate]
	req := c.http.R().SetQueryParamsFromValues(f.Query())
	if _, err := c.send(ctx, req, http.MethodGet, "/api/candidates", &out); err != nil {
		return nil, err
	}
	page := &CandidatePage{Items: out.Data}
	if out.Pagination != nil {
		page.Pagination = *out.Pagination
	}
	return page, nil
}

func (c *Client) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	var out envelope[Candidate]
	if _, err := c.do(ctx, http.MethodGet, candidatePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) CreateCandidate(ctx context.Context, input CreateCandidateInput) (*Candidate, error) {
	var out envelope[Candidate]
	if _, err := c.do(ctx, http.MethodPost, "/api/candidates", input, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) UpdateCandidate(ctx context.Context, id int64, patch UpdateCandidateInput) (*Candidate, error) {
	var out envelope[Candidate]
	if _, err := c.do(ctx, http.MethodPut, candidatePath(id), patch, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteCandidate(ctx context.Context, id int64) error {
	var out envelope[any]
	_, err := c.do(ctx, http.MethodDelete, candidatePath(id), nil, &out)
	return err
}

// UploadDocument checks the file locally the same way the server does, then
// uploads it as multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, candidateID int64, path, documentType string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	contentType := ContentTypeFor(path)
	if !IsValidFileType(contentType) {
		return nil, &APIError{Code: "FILE_UPLOAD_ERROR", Message: "Invalid file type. Only PDF and DOCX files are allowed"}
	}
	if info.Size() > MaxFileSize {
		return nil, &APIError{Code: "FILE_UPLOAD_ERROR", Message: "File too large. Maximum size is " + FormatFileSize(MaxFileSize)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return c.UploadReader(ctx, candidateID, filepath.Base(path), contentType, f, documentType)
}

func (c *Client) UploadReader(ctx context.Context, candidateID int64, filename, contentType string, r io.Reader, documentType string) (*Document, error) {
	if documentType == "" {
		documentType = DefaultDocumentType
	}
	var out envelope[Document]
	req := c.http.R().
		SetMultipartField("file", filename, contentType, r).
		SetMultipartFormData(map[string]string{"documentType": documentType})
	if _, err := c.send(ctx, req, http.MethodPost, documentsPath(candidateID), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListDocuments(ctx context.Context, candidateID int64) ([]Document, error) {
	var out envelope[[]Document]
	if _, err := c.do(ctx, http.MethodGet, documentsPath(candidateID), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) DeleteDocument(ctx context.Context, candidateID, documentID int64) (*DocumentDeletion, error) {
	var out envelope[DocumentDeletion]
	path := documentsPath(candidateID) + "/" + strconv.FormatInt(documentID, 10)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) (*resty.Response, error) {
	req := c.http.R()
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return c.send(ctx, req, method, path, result)
}

func (c *Client) send(ctx context.Context, req *resty.Request, method, path string, result any) (*resty.Response, error) {
	var apiErr errorEnvelope
	resp, err := req.
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr).
		Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		e := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		if apiErr.Error != nil {
			e.Code = apiErr.Error.Code
			e.Message = apiErr.Error.Message
			e.Details = apiErr.Error.Details
		}
		return resp, e
	}
	return resp, nil
}

func candidatePath(id int64) string {
	return "/api/candidates/" + strconv.FormatInt(id, 10)
}

func documentsPath(candidateID int64) string {
	return candidatePath(candidateID) + "/documents"
}
