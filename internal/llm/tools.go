package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownTool marks a vendor-requested tool the registry does not know.
// Callers skip the call instead of failing the whole completion.
var ErrUnknownTool = errors.New("unknown tool")

// ToolFunc executes one tool call. args is the raw JSON argument object the
// vendor produced; the returned string becomes the tool message content.
type ToolFunc func(ctx context.Context, args json.RawMessage) (string, error)

// ToolRegistry maps tool names to local handlers and keeps the matching
// vendor-facing definitions in registration order.
type ToolRegistry struct {
	defs     []Tool
	handlers map[string]ToolFunc
}

// NewToolRegistry builds a registry preloaded with the built-in tools.
func NewToolRegistry() *ToolRegistry {
	r := &ToolRegistry{handlers: make(map[string]ToolFunc)}

	r.Register(Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_current_time",
			Description: "Get the current time in a given location",
		},
	}, getCurrentTime)

	r.Register(Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "perform_calculation",
			Description: "Perform a mathematical calculation on a list of numbers",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"operation": map[string]any{
						"type":        "string",
						"description": "The operation to perform: add, subtract, multiply, divide",
						"enum":        []string{"add", "subtract", "multiply", "divide"},
					},
					"numbers": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "number"},
						"description": "The list of numbers to perform the operation on",
					},
				},
				"required": []string{"operation", "numbers"},
			},
		},
	}, performCalculation)

	return r
}

// Register adds a tool definition and its handler. Re-registering a name
// replaces the handler but keeps the original definition slot.
func (r *ToolRegistry) Register(def Tool, fn ToolFunc) {
	if _, exists := r.handlers[def.Function.Name]; !exists {
		r.defs = append(r.defs, def)
	}
	r.handlers[def.Function.Name] = fn
}

// Definitions returns the vendor-facing tool list.
func (r *ToolRegistry) Definitions() []Tool {
	return r.defs
}

// Invoke runs the named tool. Unknown names return ErrUnknownTool.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args string) (string, error) {
	fn, ok := r.handlers[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	raw := json.RawMessage(args)
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	return fn(ctx, raw)
}

func getCurrentTime(ctx context.Context, args json.RawMessage) (string, error) {
	out, err := json.Marshal(map[string]string{
		"current_time": time.Now().Format("03:04 PM"),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func performCalculation(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Operation string    `json:"operation"`
		Numbers   []float64 `json:"numbers"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid calculation arguments: %w", err)
	}
	if len(input.Numbers) == 0 {
		return "", errors.New("no numbers to operate on")
	}

	var result float64
	switch input.Operation {
	case "add":
		for _, n := range input.Numbers {
			result += n
		}
	case "subtract":
		result = input.Numbers[0]
		for _, n := range input.Numbers[1:] {
			result -= n
		}
	case "multiply":
		result = 1
		for _, n := range input.Numbers {
			result *= n
		}
	case "divide":
		result = input.Numbers[0]
		for _, n := range input.Numbers[1:] {
			result /= n
		}
	default:
		return "", fmt.Errorf("invalid operation: %q", input.Operation)
	}

	out, err := json.Marshal(struct {
		Operation string    `json:"operation"`
		Numbers   []float64 `json:"numbers"`
		Result    float64   `json:"result"`
	}{input.Operation, input.Numbers, result})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
