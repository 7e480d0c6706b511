package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
)

// Sink receives simulation events. Implementations must be safe for
// concurrent use: multiple campaign workers record events at once.
type Sink interface {
	Record(event models.SimulationEvent)
}

// LogrusSink writes events to a logrus logger as structured fields
type LogrusSink struct {
	logger *logrus.Logger
}

// NewLogrusSink creates a sink backed by the given logger
func NewLogrusSink(logger *logrus.Logger) *LogrusSink {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusSink{logger: logger}
}

// Record logs the event at a level matching its severity
func (s *LogrusSink) Record(event models.SimulationEvent) {
	entry := s.logger.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"severity":   event.Severity,
		"source":     event.Source,
		"target":     event.Target,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Description)
	case models.SeverityHigh:
		entry.Warn(event.Description)
	default:
		entry.Info(event.Description)
	}
}

// MemorySink keeps all recorded events in memory. Used by tests and by
// the dashboard's recent-events feed.
type MemorySink struct {
	mu     sync.RWMutex
	events []models.SimulationEvent
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends the event
func (s *MemorySink) Record(event models.SimulationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a copy of everything recorded so far
func (s *MemorySink) Events() []models.SimulationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SimulationEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of recorded events
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// MultiSink fans out every event to all child sinks
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines several sinks into one
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Record forwards the event to each child sink in order
func (s *MultiSink) Record(event models.SimulationEvent) {
	for _, sink := range s.sinks {
		sink.Record(event)
	}
}
