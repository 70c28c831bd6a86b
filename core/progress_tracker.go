package core

import (
	"sync"
	"time"
)

// TransferInfo is a snapshot of an in-flight byte transfer, suitable for
// direct display.
type TransferInfo struct {
	Total            int64
	Transferred      int64
	Percent          float64 // 0-100, or -1 if total is unknown
	SpeedBytesPerSec float64
	SpeedFormatted   string
	ETA              time.Duration
	Elapsed          time.Duration
}

// TransferTracker tracks upload/download byte progress with thread-safe
// updates. Speed is smoothed with an exponential moving average so the
// displayed rate does not jitter.
type TransferTracker struct {
	mu sync.RWMutex

	total        int64
	transferred  int64
	startTime    time.Time
	lastUpdate   time.Time
	lastBytes    int64
	speedAvg     float64
	speedAlpha   float64
}

// NewTransferTracker creates a tracker for a transfer of total bytes
// (0 if unknown).
func NewTransferTracker(total int64) *TransferTracker {
	now := time.Now()
	return &TransferTracker{
		total:      total,
		startTime:  now,
		lastUpdate: now,
		speedAlpha: 0.3, // balance between responsiveness and smoothness
	}
}

// Add records n more transferred bytes. Non-positive values are ignored.
func (t *TransferTracker) Add(n int64) {
	if n <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.transferred += n
	t.updateSpeed()
}

// updateSpeed recalculates the smoothed transfer rate. Must be called with
// mu held.
func (t *TransferTracker) updateSpeed() {
	now := time.Now()
	elapsed := now.Sub(t.lastUpdate).Seconds()
	if elapsed < 0.1 {
		return
	}

	instant := float64(t.transferred-t.lastBytes) / elapsed
	if t.speedAvg == 0 {
		t.speedAvg = instant
	} else {
		t.speedAvg = t.speedAlpha*instant + (1-t.speedAlpha)*t.speedAvg
	}
	t.lastUpdate = now
	t.lastBytes = t.transferred
}

// Info returns the current transfer snapshot.
func (t *TransferTracker) Info() TransferInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info := TransferInfo{
		Total:            t.total,
		Transferred:      t.transferred,
		Percent:          -1,
		SpeedBytesPerSec: t.speedAvg,
		SpeedFormatted:   FormatBytes(int64(t.speedAvg)) + "/s",
		Elapsed:          time.Since(t.startTime),
	}

	if t.total > 0 {
		info.Percent = float64(t.transferred) / float64(t.total) * 100
		if info.Percent > 100 {
			info.Percent = 100
		}
		if t.speedAvg > 0 && t.transferred < t.total {
			remaining := float64(t.total - t.transferred)
			info.ETA = time.Duration(remaining / t.speedAvg * float64(time.Second))
		}
	}

	return info
}

// Transferred returns the current transferred byte count.
func (t *TransferTracker) Transferred() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.transferred
}

// Total returns the total bytes to transfer (0 if unknown).
func (t *TransferTracker) Total() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}
