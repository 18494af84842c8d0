package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"heartrisk/patient"
)

const (
	socketReadLimit = 16 << 10
	socketIdle      = 2 * time.Minute
	socketWriteWait = 10 * time.Second
)

// socketRequest WebSocket预测请求，缺省字段使用表单默认值
type socketRequest struct {
	ID string `json:"id,omitempty"`
	patient.Input
}

// socketReply WebSocket预测响应
type socketReply struct {
	ID     string      `json:"id,omitempty"`
	Status int         `json:"status"`
	Result interface{} `json:"result,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// handlePredictSocket 在WebSocket上逐条处理预测请求，直到客户端断开或空闲超时
func (h *Handler) handlePredictSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	_, p := h.printer(r)
	ctx := context.WithoutCancel(r.Context())
	requestID := GetRequestID(ctx)
	served := 0
	defer func() {
		h.logger.Info("websocket closed",
			zap.String("request_id", requestID),
			zap.Int("predictions", served),
			zap.Duration("duration", time.Since(GetStartTime(ctx))))
	}()

	conn.SetReadLimit(socketReadLimit)
	conn.SetReadDeadline(time.Now().Add(socketIdle))

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed",
					zap.String("request_id", requestID),
					zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(socketIdle))

		req := socketRequest{Input: patient.DefaultInput()}
		var reply socketReply
		if err := json.Unmarshal(payload, &req); err != nil {
			reply = socketReply{
				Status: http.StatusBadRequest,
				Error:  errorResponse{Error: "invalid message: " + err.Error()},
			}
		} else {
			served++
			status, body := h.respond(ctx, p, req.Input)
			reply = socketReply{ID: req.ID, Status: status}
			if status == http.StatusOK {
				reply.Result = body
			} else {
				reply.Error = body
			}
		}

		conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("websocket write failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			return
		}
	}
}
