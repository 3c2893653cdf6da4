package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/domain/llm"
)

// Kind names a server tool. The set is closed: the model can only be
// offered tools listed here, and dispatch switches over this enum.
type Kind string

const (
	KindGetWeather         Kind = "get_weather"
	KindSearchWeb          Kind = "search_web"
	KindCreateDocument     Kind = "create_document"
	KindUpdateDocument     Kind = "update_document"
	KindRequestSuggestions Kind = "request_suggestions"
)

// ParseKind maps a tool name from the model onto the closed enum.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindGetWeather, KindSearchWeb, KindCreateDocument, KindUpdateDocument, KindRequestSuggestions:
		return Kind(name), nil
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

// Result captures the outcome of one tool execution. Failed executions are
// reported back to the model rather than aborting the turn.
type Result struct {
	Output  string `json:"output"`
	IsError bool   `json:"is_error"`
}

// ErrorResult wraps a failure message in a Result.
func ErrorResult(message string) *Result {
	return &Result{Output: message, IsError: true}
}

// Tool is one executable server tool.
type Tool interface {
	Kind() Kind
	Definition() llm.ToolDefinition
	Execute(ctx context.Context, owner domain.Owner, args json.RawMessage) (*Result, error)
}

// Registry holds the tools available to the orchestrator.
type Registry struct {
	tools map[Kind]Tool
	order []Kind
}

// NewRegistry constructs a registry over the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[Kind]Tool)}
	for _, t := range tools {
		if _, exists := r.tools[t.Kind()]; !exists {
			r.order = append(r.order, t.Kind())
		}
		r.tools[t.Kind()] = t
	}
	return r
}

// Definitions returns the OpenAI-compatible definitions of every registered
// tool in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, kind := range r.order {
		defs = append(defs, r.tools[kind].Definition())
	}
	return defs
}

// Execute dispatches a model requested call. A name outside the enum or an
// execution failure produces an error Result so the loop can continue.
func (r *Registry) Execute(ctx context.Context, owner domain.Owner, name string, args json.RawMessage) *Result {
	kind, err := ParseKind(name)
	if err != nil {
		return ErrorResult(err.Error())
	}
	t, ok := r.tools[kind]
	if !ok {
		return ErrorResult(fmt.Sprintf("tool %q is not available", name))
	}
	result, err := t.Execute(ctx, owner, args)
	if err != nil {
		return ErrorResult(err.Error())
	}
	if result == nil {
		return ErrorResult("tool produced no result")
	}
	return result
}
