package aifilter

import (
	"context"
	"errors"
	"strings"
)

// HistoryLimit is how many earlier chat turns accompany a query.
const HistoryLimit = 6

const TableEmployees = "employees"

var (
	ErrEmptyQuery       = errors.New("query is required")
	ErrUnsupportedTable = errors.New("unsupported table")
)

type Turn struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type Request struct {
	Query     string `json:"query"`
	History   []Turn `json:"history"`
	TableName string `json:"tableName"`
}

// Condition is one structured filter produced by the assistant.
type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// Response carries exactly one of its variants after Normalize.
type Response struct {
	Error         string      `json:"error,omitempty"`
	Clarification string      `json:"clarification,omitempty"`
	Filters       []Condition `json:"filters,omitempty"`
	Message       string      `json:"message,omitempty"`
}

type Kind string

const (
	KindError         Kind = "error"
	KindClarification Kind = "clarification"
	KindFilters       Kind = "filters"
	KindMessage       Kind = "message"
	KindEmpty         Kind = "empty"
)

func (r Response) Kind() Kind {
	switch {
	case r.Error != "":
		return KindError
	case r.Clarification != "":
		return KindClarification
	case len(r.Filters) > 0:
		return KindFilters
	case r.Message != "":
		return KindMessage
	}
	return KindEmpty
}

// Normalize drops the fields that do not belong to the response's kind. A
// filters response keeps its accompanying message.
func (r Response) Normalize() Response {
	switch r.Kind() {
	case KindError:
		return Response{Error: r.Error}
	case KindClarification:
		return Response{Clarification: r.Clarification}
	case KindFilters:
		return Response{Filters: r.Filters, Message: r.Message}
	case KindMessage:
		return Response{Message: r.Message}
	}
	return Response{}
}

type Assistant interface {
	Filter(ctx context.Context, req Request) (Response, error)
}

// Prepare validates the request and keeps the last HistoryLimit turns. Only
// the employees table can be filtered.
func Prepare(req Request) (Request, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return Request{}, ErrEmptyQuery
	}
	if req.TableName == "" {
		req.TableName = TableEmployees
	}
	if req.TableName != TableEmployees {
		return Request{}, ErrUnsupportedTable
	}
	req.History = TrimHistory(req.History)
	return req, nil
}

func TrimHistory(history []Turn) []Turn {
	if len(history) <= HistoryLimit {
		return history
	}
	return append([]Turn(nil), history[len(history)-HistoryLimit:]...)
}
