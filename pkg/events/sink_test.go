package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Dark-Vol/llm-attack-simulation/pkg/models"
)

func testEvent(eventType string) models.SimulationEvent {
	return models.SimulationEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Severity:  models.SeverityLow,
		Source:    "test",
	}
}

func TestMemorySinkRecordsInOrder(t *testing.T) {
	sink := NewMemorySink()
	sink.Record(testEvent("first"))
	sink.Record(testEvent("second"))

	evts := sink.Events()
	assert.Len(t, evts, 2)
	assert.Equal(t, "first", evts[0].EventType)
	assert.Equal(t, "second", evts[1].EventType)
}

func TestMemorySinkConcurrentWriters(t *testing.T) {
	sink := NewMemorySink()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sink.Record(testEvent("concurrent"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, sink.Len())
}

func TestMemorySinkEventsReturnsCopy(t *testing.T) {
	sink := NewMemorySink()
	sink.Record(testEvent("original"))

	evts := sink.Events()
	evts[0].EventType = "mutated"

	assert.Equal(t, "original", sink.Events()[0].EventType)
}

func TestMultiSinkFansOut(t *testing.T) {
	a := NewMemorySink()
	b := NewMemorySink()
	multi := NewMultiSink(a, b)

	multi.Record(testEvent("fanout"))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}
