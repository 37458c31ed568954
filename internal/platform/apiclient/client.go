package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hrconsole/internal/domain/entitystore"
	"hrconsole/internal/domain/skills"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

// TokenSource yields the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", ErrUnauthorized
	}
	return string(t), nil
}

// StatusError is a non-2xx response of the backend.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusGatewayTimeout,
		e.Status == http.StatusBadGateway, e.Status == http.StatusServiceUnavailable:
		return entitystore.ErrNetworkTimeout
	case e.Status >= 400 && e.Status < 500:
		return ErrBadRequest
	}
	return nil
}

// Client talks to the HR REST backend. It implements entitystore.Source.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource
	Logger  *zap.Logger
}

func New(baseURL string, tokens TokenSource, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Tokens:  tokens,
		Logger:  logger.Named("api_client"),
	}
}

func (c *Client) Employees(ctx context.Context) ([]skills.Employee, error) {
	return getList[skills.Employee](ctx, c, "/api/employees")
}

func (c *Client) Skills(ctx context.Context) ([]skills.Skill, error) {
	return getList[skills.Skill](ctx, c, "/api/skills")
}

func (c *Client) Certificates(ctx context.Context) ([]skills.Certificate, error) {
	return getList[skills.Certificate](ctx, c, "/api/certificates/management")
}

func (c *Client) EmployeeSkills(ctx context.Context) ([]skills.EmployeeSkill, error) {
	return getList[skills.EmployeeSkill](ctx, c, "/api/employee-skills")
}

func (c *Client) EmployeeCertificates(ctx context.Context) ([]skills.EmployeeCertificate, error) {
	return getList[skills.EmployeeCertificate](ctx, c, "/api/certificates/employee-certificates")
}

func (c *Client) CreateSkill(ctx context.Context, s skills.Skill) (skills.Skill, error) {
	var out skills.Skill
	err := c.Do(ctx, http.MethodPost, "/api/skills", s, &out)
	return out, err
}

func (c *Client) UpdateSkill(ctx context.Context, s skills.Skill) (skills.Skill, error) {
	var out skills.Skill
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/skills/%d", s.ID), s, &out)
	return out, err
}

func (c *Client) CreateEmployeeSkill(ctx context.Context, a skills.EmployeeSkill) (skills.EmployeeSkill, error) {
	var out skills.EmployeeSkill
	err := c.Do(ctx, http.MethodPost, "/api/employee-skills", a, &out)
	return out, err
}

func (c *Client) UpdateEmployeeSkill(ctx context.Context, a skills.EmployeeSkill) (skills.EmployeeSkill, error) {
	var out skills.EmployeeSkill
	err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/employee-skills/%d", a.ID), a, &out)
	return out, err
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Do sends body as JSON and decodes the response into out. Both bare JSON
// and the {success,data} envelope are accepted.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Status: resp.StatusCode}
		decodeError(raw, se)
		c.Logger.Debug("backend error", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return se
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return decodeBody(raw, out)
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func decodeBody(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil {
			if len(env.Data) == 0 {
				return nil
			}
			return json.Unmarshal(env.Data, out)
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(raw []byte, se *StatusError) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		se.Message = strings.TrimSpace(string(raw))
		return
	}
	switch {
	case env.Error != nil:
		se.Code, se.Message = env.Error.Code, env.Error.Message
	case env.Detail != "":
		se.Message = env.Detail
	default:
		se.Message = env.Message
	}
}
