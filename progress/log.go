package progress

import (
	"fmt"
	"sync"
	"time"
)

// now is swappable for tests.
var now = time.Now

// sessionLogCap bounds the in-memory session log. Older entries are
// overwritten once the cap is reached.
const sessionLogCap = 50

// LogEntry is one timestamped session log line.
type LogEntry struct {
	Time    time.Time
	Message string
}

// String renders the entry the way the progress log displays it.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Message)
}

// sessionLog is a thread-safe fixed-size ring of log entries. When full, the
// oldest entry is overwritten, keeping memory bounded for long sessions.
type sessionLog struct {
	mu       sync.RWMutex
	data     []LogEntry
	capacity int
	size     int
	head     int
	tail     int
}

func newSessionLog(capacity int) *sessionLog {
	if capacity < 1 {
		capacity = 1
	}
	return &sessionLog{
		data:     make([]LogEntry, capacity),
		capacity: capacity,
	}
}

func (l *sessionLog) push(e LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.data[l.head] = e
	l.head = (l.head + 1) % l.capacity
	if l.size < l.capacity {
		l.size++
	} else {
		l.tail = (l.tail + 1) % l.capacity
	}
}

// all returns entries oldest to newest. The slice is a copy.
func (l *sessionLog) all() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]LogEntry, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.data[(l.tail+i)%l.capacity]
	}
	return out
}

func (l *sessionLog) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.size = 0
	l.head = 0
	l.tail = 0
}
