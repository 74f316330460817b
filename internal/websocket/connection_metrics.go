package websocket

import (
	"sync"
	"time"
)

// BroadcastMetric is a single fanout measurement
type BroadcastMetric struct {
	EventType      EventType     `json:"eventType"`
	ConversationID uint          `json:"conversationId"`
	Duration       time.Duration `json:"duration"`
	Delivered      int           `json:"delivered"`
	Skipped        int           `json:"skipped"`
	MessageSize    int           `json:"messageSize"`
	Timestamp      time.Time     `json:"timestamp"`
}

// MetricsSummary aggregates every broadcast recorded since start
type MetricsSummary struct {
	TotalBroadcasts   int     `json:"totalBroadcasts"`
	TotalDelivered    int     `json:"totalDelivered"`
	TotalSkipped      int     `json:"totalSkipped"`
	AvgBroadcastTime  string  `json:"avgBroadcastTime"`
	PeakBroadcastTime string  `json:"peakBroadcastTime"`
	PeakMessageSize   int     `json:"peakMessageSize"`
	PeakRoomSize      int     `json:"peakRoomSize"`
	DeliveryRate      float64 `json:"deliveryRate"`
}

// ConnectionMetrics keeps a ring buffer of recent broadcasts plus totals
type ConnectionMetrics struct {
	mu sync.RWMutex

	// Metrics history (circular buffer)
	history     []BroadcastMetric
	historySize int
	historyPos  int

	totalBroadcasts    int
	totalDelivered     int
	totalSkipped       int
	totalBroadcastTime time.Duration
	peakBroadcastTime  time.Duration
	peakMessageSize    int
	peakRoomSize       int

	// Broadcasts slower than this are passed to the slow callback
	slowThreshold time.Duration
	onSlow        func(BroadcastMetric)
}

// NewConnectionMetrics creates a tracker remembering the last historySize broadcasts
func NewConnectionMetrics(historySize int) *ConnectionMetrics {
	if historySize <= 0 {
		historySize = 100
	}
	return &ConnectionMetrics{
		history:       make([]BroadcastMetric, historySize),
		historySize:   historySize,
		slowThreshold: 500 * time.Millisecond,
	}
}

// SetSlowBroadcastHook registers fn for broadcasts slower than threshold
func (cm *ConnectionMetrics) SetSlowBroadcastHook(threshold time.Duration, fn func(BroadcastMetric)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.slowThreshold = threshold
	cm.onSlow = fn
}

// RecordBroadcastMetric records one fanout
func (cm *ConnectionMetrics) RecordBroadcastMetric(
	eventType EventType,
	conversationID uint,
	duration time.Duration,
	res BroadcastResult,
) {
	metric := BroadcastMetric{
		EventType:      eventType,
		ConversationID: conversationID,
		Duration:       duration,
		Delivered:      res.Delivered,
		Skipped:        res.Skipped,
		MessageSize:    res.Bytes,
		Timestamp:      time.Now(),
	}

	cm.mu.Lock()
	cm.history[cm.historyPos] = metric
	cm.historyPos = (cm.historyPos + 1) % cm.historySize

	cm.totalBroadcasts++
	cm.totalDelivered += metric.Delivered
	cm.totalSkipped += metric.Skipped
	cm.totalBroadcastTime += duration
	if duration > cm.peakBroadcastTime {
		cm.peakBroadcastTime = duration
	}
	if metric.MessageSize > cm.peakMessageSize {
		cm.peakMessageSize = metric.MessageSize
	}
	if roomSize := metric.Delivered + metric.Skipped; roomSize > cm.peakRoomSize {
		cm.peakRoomSize = roomSize
	}
	onSlow, threshold := cm.onSlow, cm.slowThreshold
	cm.mu.Unlock()

	if onSlow != nil && duration > threshold {
		onSlow(metric)
	}
}

// History returns the recorded broadcasts, oldest first
func (cm *ConnectionMetrics) History() []BroadcastMetric {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	history := make([]BroadcastMetric, 0, cm.historySize)
	for i := 0; i < cm.historySize; i++ {
		pos := (cm.historyPos + i) % cm.historySize
		if !cm.history[pos].Timestamp.IsZero() {
			history = append(history, cm.history[pos])
		}
	}
	return history
}

// Summary returns the aggregated counters
func (cm *ConnectionMetrics) Summary() MetricsSummary {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	avg := time.Duration(0)
	if cm.totalBroadcasts > 0 {
		avg = cm.totalBroadcastTime / time.Duration(cm.totalBroadcasts)
	}
	rate := float64(100)
	if total := cm.totalDelivered + cm.totalSkipped; total > 0 {
		rate = float64(cm.totalDelivered) / float64(total) * 100
	}

	return MetricsSummary{
		TotalBroadcasts:   cm.totalBroadcasts,
		TotalDelivered:    cm.totalDelivered,
		TotalSkipped:      cm.totalSkipped,
		AvgBroadcastTime:  avg.String(),
		PeakBroadcastTime: cm.peakBroadcastTime.String(),
		PeakMessageSize:   cm.peakMessageSize,
		PeakRoomSize:      cm.peakRoomSize,
		DeliveryRate:      rate,
	}
}
