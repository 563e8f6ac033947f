package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolCallServer simulates a vendor that first requests tool calls and then
// answers normally on the follow-up completion.
func toolCallServer(t *testing.T, calls []ToolCall, followUp *atomic.Pointer[ChatCompletionRequest]) *httptest.Server {
	t.Helper()
	var round atomic.Int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if round.Add(1) == 1 {
			resp := ChatCompletionResponse{
				Choices: []ChatChoice{{
					Message: ResponseMessage{Role: "assistant", ToolCalls: calls},
				}},
			}
			out, _ := json.Marshal(resp)
			fmt.Fprint(w, string(out))
			return
		}

		followUp.Store(&req)
		fmt.Fprint(w, completionJSON("the answer is 5"))
	}))
}

func TestFunctionCallingRoundTrip(t *testing.T) {
	var followUp atomic.Pointer[ChatCompletionRequest]
	server := toolCallServer(t, []ToolCall{{
		ID:   "call-1",
		Type: "function",
		Function: FunctionCall{
			Name:      "perform_calculation",
			Arguments: `{"operation":"add","numbers":[2,3]}`,
		},
	}}, &followUp)
	defer server.Close()

	p := NewFunctionCallingProvider(server.URL, "key", NewToolRegistry())
	reply, err := p.Complete(context.Background(), Conversation{
		Model:    "gpt-4o-mini-function-calling",
		Messages: []Message{{Role: "user", Content: "what is 2+3?"}},
	})
	require.NoError(t, err)
	require.Len(t, reply, 1)
	assert.Equal(t, "assistant", reply[0].Role)
	assert.Equal(t, "the answer is 5", reply[0].Content)

	// The follow-up request must carry the tool result appended after the
	// assistant's tool-call message.
	req := followUp.Load()
	require.NotNil(t, req, "no follow-up completion was issued")
	require.Len(t, req.Messages, 3) // user, assistant tool_calls, tool result

	toolMsg := req.Messages[2]
	assert.Equal(t, "tool", toolMsg.Role)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Equal(t, "perform_calculation", toolMsg.Name)
	assert.JSONEq(t, `{"operation":"add","numbers":[2,3],"result":5}`, toolMsg.Content)
	assert.Empty(t, req.Tools, "follow-up completion must not re-advertise tools")
}

func TestFunctionCallingSkipsUnknownTool(t *testing.T) {
	var followUp atomic.Pointer[ChatCompletionRequest]
	server := toolCallServer(t, []ToolCall{
		{
			ID:       "call-1",
			Type:     "function",
			Function: FunctionCall{Name: "no_such_tool", Arguments: `{}`},
		},
		{
			ID:       "call-2",
			Type:     "function",
			Function: FunctionCall{Name: "get_current_time", Arguments: `{}`},
		},
	}, &followUp)
	defer server.Close()

	p := NewFunctionCallingProvider(server.URL, "key", NewToolRegistry())
	_, err := p.Complete(context.Background(), Conversation{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	req := followUp.Load()
	require.NotNil(t, req)
	// Unknown tool contributed no message: user, assistant, one tool result.
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "get_current_time", req.Messages[2].Name)
}

func TestFunctionCallingNoToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionJSON("plain answer"))
	}))
	defer server.Close()

	p := NewFunctionCallingProvider(server.URL, "key", NewToolRegistry())
	reply, err := p.Complete(context.Background(), Conversation{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Len(t, reply, 1)
	assert.Equal(t, "plain answer", reply[0].Content)
}

func TestFunctionCallingDoesNotStream(t *testing.T) {
	p := NewFunctionCallingProvider("http://localhost", "key", NewToolRegistry())
	assert.False(t, p.Model().Stream)
	_, err := p.Stream(context.Background(), Conversation{})
	require.ErrorIs(t, err, ErrStreamingNotSupported)
}
