package textbuffer

// EventType identifies a buffer event.
type EventType int

const (
	EventAppended EventType = iota
	EventEvicted
	EventCleared
	EventSearched
	EventCopied
	EventFilterChanged
)

var eventTypeNames = [...]string{
	EventAppended:      "appended",
	EventEvicted:       "evicted",
	EventCleared:       "cleared",
	EventSearched:      "searched",
	EventCopied:        "copied",
	EventFilterChanged: "filter_changed",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event describes a change to the buffer. Count is the number of lines
// appended or evicted, the match count of a search, the rune count of a
// copy, or the size of the filtered view after a filter change.
type Event struct {
	Type  EventType
	Count int
}

// Observer receives buffer events synchronously on the caller's goroutine.
type Observer interface {
	HandleBufferEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// HandleBufferEvent calls f(ev).
func (f ObserverFunc) HandleBufferEvent(ev Event) { f(ev) }
