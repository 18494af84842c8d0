// Package monitoring 提供预测服务指标
package monitoring

import (
	"runtime"
	"sync/atomic"
	"time"

	"heartrisk/ml"
	"heartrisk/patient"
)

// MetricType 指标类型
type MetricType string

const (
	MetricTypeCounter MetricType = "counter"
	MetricTypeGauge   MetricType = "gauge"
)

// Metric 指标
type Metric struct {
	Name  string     `json:"name"`
	Type  MetricType `json:"type"`
	Value float64    `json:"value"`
	Help  string     `json:"help,omitempty"`
}

// PredictionMetrics 预测计数器，可并发使用
type PredictionMetrics struct {
	requests     atomic.Int64
	direct       atomic.Int64
	encoded      atomic.Int64
	positive     atomic.Int64
	inputErrors  atomic.Int64
	modelFailure atomic.Int64

	startTime time.Time
}

// NewPredictionMetrics 创建指标收集器
func NewPredictionMetrics() *PredictionMetrics {
	return &PredictionMetrics{startTime: time.Now()}
}

// Observe 记录一次预测的结果
func (m *PredictionMetrics) Observe(result ml.Result, err error) {
	m.requests.Add(1)
	if err != nil {
		if ml.IsInputError(err) || patient.IsInputError(err) {
			m.inputErrors.Add(1)
		} else {
			m.modelFailure.Add(1)
		}
		return
	}

	switch result.Attempt {
	case ml.AttemptDirect:
		m.direct.Add(1)
	case ml.AttemptEncoded:
		m.encoded.Add(1)
	}
	if result.AtRisk() {
		m.positive.Add(1)
	}
}

// Snapshot 返回当前指标
func (m *PredictionMetrics) Snapshot() []Metric {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return []Metric{
		{Name: "predictions_total", Type: MetricTypeCounter, Value: float64(m.requests.Load()), Help: "Prediction requests received"},
		{Name: "predictions_direct_total", Type: MetricTypeCounter, Value: float64(m.direct.Load()), Help: "Predictions served from raw labels"},
		{Name: "predictions_encoded_total", Type: MetricTypeCounter, Value: float64(m.encoded.Load()), Help: "Predictions served after label encoding"},
		{Name: "predictions_positive_total", Type: MetricTypeCounter, Value: float64(m.positive.Load()), Help: "Predictions of class 1"},
		{Name: "prediction_input_errors_total", Type: MetricTypeCounter, Value: float64(m.inputErrors.Load()), Help: "Rejected submissions"},
		{Name: "prediction_failures_total", Type: MetricTypeCounter, Value: float64(m.modelFailure.Load()), Help: "Model invocation failures"},
		{Name: "uptime_seconds", Type: MetricTypeGauge, Value: time.Since(m.startTime).Seconds()},
		{Name: "goroutines", Type: MetricTypeGauge, Value: float64(runtime.NumGoroutine())},
		{Name: "memory_heap_alloc", Type: MetricTypeGauge, Value: float64(mem.HeapAlloc), Help: "Memory heap allocated in bytes"},
	}
}

// Value 按名称获取指标值
func (m *PredictionMetrics) Value(name string) (float64, bool) {
	for _, metric := range m.Snapshot() {
		if metric.Name == name {
			return metric.Value, true
		}
	}
	return 0, false
}
