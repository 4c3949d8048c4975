package channel

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/lingua-channel/internal/model/chat"
	"github.com/zhouzirui/lingua-channel/internal/service/intake"
	"github.com/zhouzirui/lingua-channel/pkg/utils"
)

const maxBodyBytes = 1 << 20

// TranscriptReader 提供完整的消息记录。
type TranscriptReader interface {
	LoadAll(ctx context.Context) []chat.Message
}

// Submitter 处理一条入站消息。
type Submitter interface {
	Submit(ctx context.Context, sub intake.Submission) (intake.Outcome, error)
}

// Handler 频道的HTTP处理器
type Handler struct {
	name       string
	transcript TranscriptReader
	intake     Submitter
}

// New 创建频道处理器
func New(name string, transcript TranscriptReader, submitter Submitter) *Handler {
	return &Handler{name: name, transcript: transcript, intake: submitter}
}

// RegisterRoutes 注册频道相关的路由，调用方负责在外层挂载鉴权中间件。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/", h.handleListMessages)
	r.Post("/", h.handleSendMessage)
}

// handleHealth 返回频道名称
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"name": h.name})
}

// handleListMessages 返回完整的消息记录
func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.transcript.LoadAll(r.Context()))
}

// handleSendMessage 接收一条消息
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utils.RespondText(w, http.StatusBadRequest, "Invalid message")
		return
	}

	sub, err := intake.Decode(body)
	if err != nil {
		var shape *intake.ShapeError
		if errors.As(err, &shape) {
			utils.RespondText(w, http.StatusBadRequest, shape.Error())
			return
		}
		utils.RespondText(w, http.StatusBadRequest, "Invalid message")
		return
	}

	if _, err := h.intake.Submit(r.Context(), sub); err != nil {
		utils.RespondText(w, http.StatusInternalServerError, "Failed to save message")
		return
	}

	utils.RespondText(w, http.StatusOK, "OK")
}
