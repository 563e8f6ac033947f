package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lonnieqin/chatapi/internal/llm"
	"github.com/lonnieqin/chatapi/internal/utils"
)

// ChatHandler fronts the dispatcher: model listing plus completion, either
// buffered or streamed as Server-Sent-Events.
type ChatHandler struct {
	Dispatcher *llm.Dispatcher
}

// POST /chat-models/
func (h *ChatHandler) Models(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "",
		Data:    h.Dispatcher.Models(),
	})
}

// POST /chat/completions/
func (h *ChatHandler) Completions(w http.ResponseWriter, r *http.Request) {
	var conv llm.Conversation
	if err := json.NewDecoder(r.Body).Decode(&conv); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if len(conv.Messages) == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Message content cannot be empty")
		return
	}

	provider, err := h.Dispatcher.Select(conv.Model)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if conv.Stream && provider.Model().Stream {
		h.streamCompletion(w, r, provider, conv)
		return
	}

	messages, err := provider.Complete(r.Context(), conv)
	if err != nil {
		writeVendorError(w, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Envelope{
		Message: "",
		Data:    messages,
	})
}

// streamCompletion forwards vendor chunks as SSE frames as they arrive. The
// request context cancels on client disconnect, which tears down the vendor
// call as well.
func (h *ChatHandler) streamCompletion(w http.ResponseWriter, r *http.Request, provider llm.Provider, conv llm.Conversation) {
	chunks, err := provider.Stream(r.Context(), conv)
	if err != nil {
		writeVendorError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.JSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for chunk := range chunks {
		payload, err := json.Marshal(llm.Message{Role: "assistant", Content: chunk})
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// writeVendorError maps adapter failures to the taxonomy: vendor non-2xx
// keeps its own status and body, everything else is a 500.
func writeVendorError(w http.ResponseWriter, err error) {
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		utils.JSONError(w, upstream.StatusCode, upstream.Body)
		return
	}
	utils.JSONError(w, http.StatusInternalServerError, err.Error())
}
