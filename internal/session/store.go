// Package session holds per-session transient state: scoring progress, the
// interviewer reaction log and the ideal-answer cache.
package session

import (
	"sync"
	"time"

	"github.com/spigell/interview-coach/internal/interview"
)

// ProgressStore tracks how far a scoring batch has gone. Missing sessions are
// never an error.
type ProgressStore interface {
	Init(id string, total int)
	Increment(id string)
	Get(id string) interview.Progress
	Clear(id string)
}

// ReactionLog keeps the interviewer reactions of a session.
type ReactionLog interface {
	Init(id string)
	Add(id string, r interview.Reaction)
	List(id string) []interview.Reaction
	Clear(id string)
}

// IdealAnswerCache memoizes generated ideal answers by question text.
type IdealAnswerCache interface {
	Get(question string) (string, bool)
	Set(question, answer string)
}

// Clock returns the current time.
type Clock func() time.Time

type progressEntry struct {
	progress interview.Progress
	started  time.Time
}

// MemoryProgress is an in-process ProgressStore.
type MemoryProgress struct {
	mu      sync.Mutex
	now     Clock
	entries map[string]*progressEntry
}

func NewMemoryProgress(now Clock) *MemoryProgress {
	if now == nil {
		now = time.Now
	}
	return &MemoryProgress{now: now, entries: make(map[string]*progressEntry)}
}

// Init resets the session to {0, total}, dropping whatever was there.
func (m *MemoryProgress) Init(id string, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = &progressEntry{progress: interview.Progress{Total: total}, started: m.now()}
}

func (m *MemoryProgress) Increment(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.progress.Current++
	}
}

func (m *MemoryProgress) Get(id string) interview.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		return e.progress
	}
	return interview.Progress{}
}

func (m *MemoryProgress) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Len returns the number of tracked sessions.
func (m *MemoryProgress) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryProgress) sweep(cutoff time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var swept []string
	for id, e := range m.entries {
		if e.started.Before(cutoff) {
			delete(m.entries, id)
			swept = append(swept, id)
		}
	}
	return swept
}

type reactionEntry struct {
	reactions []interview.Reaction
	started   time.Time
}

// MemoryReactions is an in-process ReactionLog.
type MemoryReactions struct {
	mu      sync.Mutex
	now     Clock
	entries map[string]*reactionEntry
}

func NewMemoryReactions(now Clock) *MemoryReactions {
	if now == nil {
		now = time.Now
	}
	return &MemoryReactions{now: now, entries: make(map[string]*reactionEntry)}
}

// Init starts an empty log for the session, discarding a previous one.
func (m *MemoryReactions) Init(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = &reactionEntry{started: m.now()}
}

func (m *MemoryReactions) Add(id string, r interview.Reaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.reactions = append(e.reactions, r)
	}
}

// List returns a copy of the session's reactions, nil when absent.
func (m *MemoryReactions) List(id string) []interview.Reaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil
	}
	return append([]interview.Reaction{}, e.reactions...)
}

func (m *MemoryReactions) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
}

// Len returns the number of tracked sessions.
func (m *MemoryReactions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryReactions) sweep(cutoff time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var swept []string
	for id, e := range m.entries {
		if e.started.Before(cutoff) {
			delete(m.entries, id)
			swept = append(swept, id)
		}
	}
	return swept
}

// MemoryAnswers is an unbounded IdealAnswerCache without expiry.
type MemoryAnswers struct {
	mu      sync.RWMutex
	answers map[string]string
}

func NewMemoryAnswers() *MemoryAnswers {
	return &MemoryAnswers{answers: make(map[string]string)}
}

func (m *MemoryAnswers) Get(question string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.answers[question]
	return a, ok
}

func (m *MemoryAnswers) Set(question, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[question] = answer
}

// Len returns the number of cached answers.
func (m *MemoryAnswers) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.answers)
}
