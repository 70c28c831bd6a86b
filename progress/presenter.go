package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"mixanalyzer/events"
)

// Presenter owns the step tracker for one job at a time. It is constructed
// explicitly and passed to whoever drives it; there is no package-level
// instance.
type Presenter struct {
	mu      sync.Mutex
	out     io.Writer
	bus     *events.Bus
	trackID string

	states     map[StepID]StepState
	stageIdx   int
	lastPct    float64
	statusOpen bool
	log        *sessionLog

	completedC *color.Color
	activeC    *color.Color
	stageC     *color.Color
}

// NewPresenter creates a presenter drawing to out and publishing step and
// stage transitions on bus. bus may be nil.
func NewPresenter(out io.Writer, bus *events.Bus) *Presenter {
	p := &Presenter{
		out:        out,
		bus:        bus,
		states:     make(map[StepID]StepState, len(StepOrder)),
		stageIdx:   -1,
		log:        newSessionLog(sessionLogCap),
		completedC: color.New(color.FgGreen),
		activeC:    color.New(color.FgCyan, color.Bold),
		stageC:     color.New(color.FgYellow),
	}
	p.resetLocked("")
	return p
}

// Reset prepares the tracker for a fresh job: all steps back to waiting, the
// session log cleared.
func (p *Presenter) Reset(trackID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked(trackID)
}

func (p *Presenter) resetLocked(trackID string) {
	p.endStatusLine()
	p.trackID = trackID
	p.stageIdx = -1
	p.lastPct = 0
	for _, id := range StepOrder {
		p.states[id] = StateWaiting
	}
	p.log.clear()
}

// ReportStage advances the tracker to the given coarse stage and percentage.
// Entering a later stage marks all logically prior steps completed, so no
// step is left in-progress once a later stage begins. Unknown stage names
// only update the status line.
func (p *Presenter) ReportStage(stage string, pct float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := stageIndex(stage)
	if idx >= 0 && idx > p.stageIdx {
		p.stageIdx = idx
		p.lastPct = 0
		p.publish(events.StageChanged, map[string]interface{}{"stage": stage, "pct": pct})
	}

	// Percentages never move backwards within a stage; a late out-of-order
	// report redraws at the highest value seen so far.
	if pct < p.lastPct {
		pct = p.lastPct
	} else {
		p.lastPct = pct
	}

	p.drawStatusLine(stage, pct)

	if idx < 0 {
		// Server-invented stage name: status text only.
		return
	}

	active := activeStepForStage[stageOrder[p.stageIdx]]
	if p.stageIdx == stageIndex(StageAnalyzing) {
		active = analyzingStep(pct)
	}

	p.advanceTo(active)
	if p.stageIdx == stageIndex(StageCompleted) {
		p.setStateLocked(StepFinalizing, StateCompleted, "")
	}
}

// advanceTo marks every step before active completed and active in-progress,
// idempotently. Completed steps never regress.
func (p *Presenter) advanceTo(active StepID) {
	target := stepIndex(active)
	for i, id := range StepOrder {
		switch {
		case i < target:
			p.setStateLocked(id, StateCompleted, "")
		case i == target:
			if p.states[id] != StateCompleted {
				p.setStateLocked(id, StateInProgress, "")
			}
		}
	}
}

// SetStepState sets one step directly. Completed steps never regress; a note,
// when present, also lands in the session log.
func (p *Presenter) SetStepState(id StepID, state StepState, note string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setStateLocked(id, state, note)
}

func (p *Presenter) setStateLocked(id StepID, state StepState, note string) {
	prev, ok := p.states[id]
	if !ok {
		return
	}
	if prev == StateCompleted && state != StateCompleted {
		return
	}
	if prev == state {
		if note != "" {
			p.logLocked(note)
		}
		return
	}

	p.states[id] = state
	p.drawStep(id, state)
	if note != "" {
		p.logLocked(note)
	} else if state == StateCompleted {
		p.logLocked(stepTitles[id] + " complete")
	}
	p.publish(events.StepChanged, map[string]interface{}{
		"step":  string(id),
		"state": string(state),
	})
}

// Log appends a timestamped message to the bounded session log.
func (p *Presenter) Log(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logLocked(msg)
}

func (p *Presenter) logLocked(msg string) {
	p.log.push(LogEntry{Time: now(), Message: msg})
}

// LogEntries returns the session log, oldest first, capped at the last 50.
func (p *Presenter) LogEntries() []LogEntry {
	return p.log.all()
}

// StepStates returns a snapshot of all step states in display order.
func (p *Presenter) StepStates() map[StepID]StepState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[StepID]StepState, len(p.states))
	for id, s := range p.states {
		out[id] = s
	}
	return out
}

// drawStatusLine redraws the stage/percent line in place. The line stays
// open so the next report overwrites it; step transitions and Reset close it.
func (p *Presenter) drawStatusLine(stage string, pct float64) {
	if p.out == nil {
		return
	}
	p.stageC.Fprintf(p.out, "\r%-28s %3.0f%%", stage, pct)
	p.statusOpen = true
}

func (p *Presenter) endStatusLine() {
	if p.out == nil || !p.statusOpen {
		return
	}
	fmt.Fprintln(p.out)
	p.statusOpen = false
}

func (p *Presenter) drawStep(id StepID, state StepState) {
	if p.out == nil {
		return
	}
	p.endStatusLine()
	switch state {
	case StateCompleted:
		p.completedC.Fprintf(p.out, "  ✓ %s\n", stepTitles[id])
	case StateInProgress:
		p.activeC.Fprintf(p.out, "  → %s...\n", stepTitles[id])
	}
}

func (p *Presenter) publish(name string, fields map[string]interface{}) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(events.Event{Name: name, TrackID: p.trackID, Fields: fields})
}
