// Package evaluator delegates full evaluations to an external scripted evaluator,
// either a local interpreter process or a remote HTTP service.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

// ErrDisabled is returned by the disabled client.
var ErrDisabled = errors.New("external evaluator is not configured")

// Result is the decoded JSON document returned by the evaluator.
type Result map[string]any

// Environment describes the evaluator runtime.
type Environment struct {
	Mode       string `json:"mode"`
	Version    string `json:"version,omitempty"`
	Executable string `json:"executable,omitempty"`
	ScriptPath string `json:"script_path,omitempty"`
	URL        string `json:"url,omitempty"`
}

type Client interface {
	Evaluate(ctx context.Context, priorities ahp.PriorityRanking) (Result, error)
	Environment(ctx context.Context) (*Environment, error)
}

// FailedError reports an evaluator run that completed but reported failure.
type FailedError struct {
	Message string
}

func (e *FailedError) Error() string {
	return "evaluator reported failure: " + e.Message
}

type request struct {
	Priorities map[string]int `json:"priorities"`
}

func newRequest(priorities ahp.PriorityRanking) (request, error) {
	if err := priorities.Validate(); err != nil {
		return request{}, err
	}
	return request{Priorities: priorities.Codes()}, nil
}

// checkResult rejects documents carrying "success": false.
func checkResult(res Result) error {
	if res == nil {
		return &FailedError{Message: "empty result"}
	}
	ok, present := res["success"].(bool)
	if present && !ok {
		msg, _ := res["message"].(string)
		if msg == "" {
			msg = fmt.Sprint(res["error"])
		}
		return &FailedError{Message: msg}
	}
	return nil
}

type disabledClient struct{}

// Disabled returns a client that refuses every call.
func Disabled() Client { return disabledClient{} }

func (disabledClient) Evaluate(context.Context, ahp.PriorityRanking) (Result, error) {
	return nil, ErrDisabled
}

func (disabledClient) Environment(context.Context) (*Environment, error) {
	return nil, ErrDisabled
}
