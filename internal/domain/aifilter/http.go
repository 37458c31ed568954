package aifilter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"hrconsole/internal/domain/skills"
	"hrconsole/internal/platform/apiclient"
)

// HTTPAssistant forwards queries to a backend that already exposes the
// /api/ai endpoints.
type HTTPAssistant struct {
	Client *apiclient.Client
}

func NewHTTPAssistant(client *apiclient.Client) *HTTPAssistant {
	return &HTTPAssistant{Client: client}
}

func (a *HTTPAssistant) Filter(ctx context.Context, req Request) (Response, error) {
	req, err := Prepare(req)
	if err != nil {
		return Response{}, err
	}
	var out Response
	if err := a.Client.Do(ctx, http.MethodPost, "/api/ai/filter", req, &out); err != nil {
		return Response{}, err
	}
	return out.Normalize(), nil
}

type applyRequest struct {
	Filters   []Condition `json:"filters"`
	TableName string      `json:"tableName"`
}

// Apply asks the backend to evaluate conditions and returns the matching employees.
func (a *HTTPAssistant) Apply(ctx context.Context, conditions []Condition, table string) ([]skills.Employee, error) {
	var raw json.RawMessage
	if err := a.Client.Do(ctx, http.MethodPost, "/api/ai/filter-apply", applyRequest{Filters: conditions, TableName: table}, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	var employees []skills.Employee
	if raw[0] == '[' {
		err := json.Unmarshal(raw, &employees)
		return employees, err
	}
	var wrapped struct {
		Data []skills.Employee `json:"data"`
	}
	err := json.Unmarshal(raw, &wrapped)
	return wrapped.Data, err
}
