// Package http 提供预测页面与API处理器
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"heartrisk/ml"
	"heartrisk/monitoring"
	"heartrisk/patient"
	"heartrisk/render"
)

// Handler 预测表单与API处理器
type Handler struct {
	predictor *ml.Predictor
	locales   *render.Localizer
	metrics   *monitoring.PredictionMetrics
	logger    *zap.Logger
	decoder   *schema.Decoder
	upgrader  websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(predictor *ml.Predictor, locales *render.Localizer, metrics *monitoring.PredictionMetrics, logger *zap.Logger) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	if metrics == nil {
		metrics = monitoring.NewPredictionMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		predictor: predictor,
		locales:   locales,
		metrics:   metrics,
		logger:    logger,
		decoder:   decoder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Register 注册路由
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /predict", h.handlePredictForm)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/form", h.handleFormSchema)
	mux.HandleFunc("POST /api/predict", h.handlePredictJSON)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	mux.HandleFunc("GET /api/ws/predict", h.handlePredictSocket)
}

type predictResponse struct {
	Class       int      `json:"class"`
	Probability *float64 `json:"probability,omitempty"`
	Attempt     string   `json:"attempt"`
	render.Verdict
}

type errorResponse struct {
	Error   string            `json:"error"`
	Field   string            `json:"field,omitempty"`
	Value   string            `json:"value,omitempty"`
	Options []string          `json:"options,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.predictor.Ready() {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "model not loaded"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	tag, p := h.printer(r)
	h.writePage(w, http.StatusOK, render.NewPage(p, tag, patient.DefaultInput()))
}

func (h *Handler) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	tag, p := h.printer(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := patient.DefaultInput()
	if err := h.decoder.Decode(&in, r.PostForm); err != nil {
		err = formDecodeError(err, r.PostForm.Get)
		h.metrics.Observe(ml.Result{}, err)

		page := render.NewPage(p, tag, in)
		page.SetFieldErrors(render.FieldErrors(p, err))
		page.Error = render.ErrorMessage(p, err)
		h.writePage(w, http.StatusUnprocessableEntity, page)
		return
	}

	page := render.NewPage(p, tag, in)
	result, err := h.predict(r.Context(), in)
	if err != nil {
		page.SetFieldErrors(render.FieldErrors(p, err))
		page.Error = render.ErrorMessage(p, err)
		h.writePage(w, errorStatus(err), page)
		return
	}

	verdict := render.NewVerdict(p, result)
	page.Verdict = &verdict
	h.writePage(w, http.StatusOK, page)
}

func (h *Handler) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	_, p := h.printer(r)

	in := patient.DefaultInput()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	status, body := h.respond(r.Context(), p, in)
	h.writeJSON(w, status, body)
}

func (h *Handler) handleFormSchema(w http.ResponseWriter, r *http.Request) {
	_, p := h.printer(r)

	fields := patient.Fields()
	for i := range fields {
		fields[i].Label = p.Sprintf(fields[i].Label)
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"fields": fields})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"metrics": h.metrics.Snapshot()})
}

// respond 执行一次预测并生成REST与WebSocket共用的JSON响应
func (h *Handler) respond(ctx context.Context, p *message.Printer, in patient.Input) (int, interface{}) {
	result, err := h.predict(ctx, in)
	if err != nil {
		return errorStatus(err), newErrorResponse(p, err)
	}
	return http.StatusOK, predictResponse{
		Class:       result.Class,
		Probability: result.Probability,
		Attempt:     result.Attempt.String(),
		Verdict:     render.NewVerdict(p, result),
	}
}

func (h *Handler) predict(ctx context.Context, in patient.Input) (ml.Result, error) {
	var result ml.Result
	record, err := in.Build()
	if err == nil {
		result, err = h.predictor.Predict(ctx, record)
	}
	h.metrics.Observe(result, err)

	if err != nil && !isInputError(err) {
		h.logger.Error("prediction failed",
			zap.String("request_id", GetRequestID(ctx)),
			zap.Error(err))
	}
	return result, err
}

func (h *Handler) printer(r *http.Request) (language.Tag, *message.Printer) {
	tag := h.locales.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	return tag, h.locales.Printer(tag)
}

func (h *Handler) writePage(w http.ResponseWriter, status int, page *render.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(w); err != nil {
		h.logger.Error("render page failed", zap.Error(err))
	}
}

func newErrorResponse(p *message.Printer, err error) errorResponse {
	resp := errorResponse{Error: render.ErrorMessage(p, err)}
	if !isInputError(err) {
		return resp
	}
	resp.Fields = render.FieldErrors(p, err)

	var unrecognized *ml.UnrecognizedCategoryError
	if errors.As(err, &unrecognized) {
		resp.Field = unrecognized.Field
		resp.Value = unrecognized.Value
		resp.Options = unrecognized.Options
	}
	return resp
}

func isInputError(err error) bool {
	return ml.IsInputError(err) || patient.IsInputError(err)
}

func errorStatus(err error) int {
	if isInputError(err) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ml.ErrModelNotLoaded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// formDecodeError 将表单解码错误转换为按字段顺序排列的解析错误
func formDecodeError(err error, value func(string) string) error {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}

	order := make(map[string]int)
	for i, name := range patient.Names() {
		order[name] = i
	}
	keys := make([]string, 0, len(multi))
	for key := range multi {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return order[keys[i]] < order[keys[j]] })

	errs := make([]error, 0, len(keys))
	for _, key := range keys {
		errs = append(errs, &patient.ParseError{Field: key, Value: value(key), Err: multi[key]})
	}
	return errors.Join(errs...)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	if err := writeJSON(w, status, v); err != nil {
		h.logger.Error("write response failed", zap.Int("status", status), zap.Error(err))
	}
}

// writeJSON 先编码再写状态码，编码失败时返回500
func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(append(payload, '\n'))
	return err
}
