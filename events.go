package strata

import (
	"sync"
)

// EventType identifies the kind of configuration change an event reports
type EventType int

const (
	EventAny EventType = iota
	EventAddProperty
	EventSetProperty
	EventClearProperty
	EventClear
	EventAddNodes
	EventClearTree
	EventRead
	EventWrite
	EventResultCreated
	EventResultReset
	EventError
)

var eventTypeNames = map[EventType]string{
	EventAny:           "any",
	EventAddProperty:   "addProperty",
	EventSetProperty:   "setProperty",
	EventClearProperty: "clearProperty",
	EventClear:         "clear",
	EventAddNodes:      "addNodes",
	EventClearTree:     "clearTree",
	EventRead:          "read",
	EventWrite:         "write",
	EventResultCreated: "resultCreated",
	EventResultReset:   "resultReset",
	EventError:         "error",
}

func (et EventType) String() string {
	if name, ok := eventTypeNames[et]; ok {
		return name
	}
	return "unknown"
}

// ConfigurationEvent is delivered to listeners around every mutation.
// Each mutation fires twice: once with Before set, once after the change
// has been applied.
type ConfigurationEvent struct {
	Type   EventType
	Key    string
	Value  interface{}
	Before bool
	Source interface{}
}

// ErrorEvent is delivered to error listeners when an operation against a
// configuration source fails
type ErrorEvent struct {
	Type   EventType
	Key    string
	Err    error
	Source interface{}
}

type EventListener interface {
	ConfigurationChanged(event ConfigurationEvent)
}

type EventListenerFunc func(event ConfigurationEvent)

func (f EventListenerFunc) ConfigurationChanged(event ConfigurationEvent) {
	f(event)
}

type ErrorListener interface {
	ConfigurationError(event ErrorEvent)
}

type ErrorListenerFunc func(event ErrorEvent)

func (f ErrorListenerFunc) ConfigurationError(event ErrorEvent) {
	f(event)
}

// Registration identifies a registered listener so it can be removed
type Registration int

// EventSource manages listener registration and delivery for a
// configuration. The zero value is ready to use.
type EventSource struct {
	mutex          sync.RWMutex
	listeners      map[EventType]map[Registration]EventListener
	errorListeners map[Registration]ErrorListener
	nextID         Registration
	detailDisabled int
}

// AddListener registers a listener for one event type. EventAny receives
// every event.
func (es *EventSource) AddListener(eventType EventType, listener EventListener) Registration {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	if es.listeners == nil {
		es.listeners = make(map[EventType]map[Registration]EventListener)
	}
	if es.listeners[eventType] == nil {
		es.listeners[eventType] = make(map[Registration]EventListener)
	}

	es.nextID++
	es.listeners[eventType][es.nextID] = listener
	return es.nextID
}

// AddListenerFunc registers a plain function as a listener
func (es *EventSource) AddListenerFunc(eventType EventType, listener EventListenerFunc) Registration {
	return es.AddListener(eventType, listener)
}

// RemoveListener drops a previously registered listener
func (es *EventSource) RemoveListener(registration Registration) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	for _, group := range es.listeners {
		if _, ok := group[registration]; ok {
			delete(group, registration)
			return true
		}
	}
	if _, ok := es.errorListeners[registration]; ok {
		delete(es.errorListeners, registration)
		return true
	}
	return false
}

// AddErrorListener registers a listener for failed source operations
func (es *EventSource) AddErrorListener(listener ErrorListener) Registration {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	if es.errorListeners == nil {
		es.errorListeners = make(map[Registration]ErrorListener)
	}

	es.nextID++
	es.errorListeners[es.nextID] = listener
	return es.nextID
}

// HasListeners reports whether anything is registered for the event type
// (or for all events)
func (es *EventSource) HasListeners(eventType EventType) bool {
	es.mutex.RLock()
	defer es.mutex.RUnlock()
	return len(es.listeners[eventType]) > 0 || len(es.listeners[EventAny]) > 0
}

// suspendDetail turns off per-property events, used while bulk loading.
// Calls nest.
func (es *EventSource) suspendDetail() {
	es.mutex.Lock()
	es.detailDisabled++
	es.mutex.Unlock()
}

func (es *EventSource) resumeDetail() {
	es.mutex.Lock()
	if es.detailDisabled > 0 {
		es.detailDisabled--
	}
	es.mutex.Unlock()
}

// DetailEvents reports whether per-property events are currently delivered
func (es *EventSource) DetailEvents() bool {
	es.mutex.RLock()
	defer es.mutex.RUnlock()
	return es.detailDisabled == 0
}

func (es *EventSource) fire(eventType EventType, key string, value interface{}, before bool, source interface{}) {
	es.mutex.RLock()
	if es.detailDisabled > 0 && isDetailEvent(eventType) {
		es.mutex.RUnlock()
		return
	}

	targets := make([]EventListener, 0, len(es.listeners[eventType])+len(es.listeners[EventAny]))
	for _, listener := range es.listeners[eventType] {
		targets = append(targets, listener)
	}
	if eventType != EventAny {
		for _, listener := range es.listeners[EventAny] {
			targets = append(targets, listener)
		}
	}
	es.mutex.RUnlock()

	event := ConfigurationEvent{
		Type:   eventType,
		Key:    key,
		Value:  value,
		Before: before,
		Source: source,
	}
	for _, listener := range targets {
		listener.ConfigurationChanged(event)
	}
}

func (es *EventSource) fireError(eventType EventType, key string, err error, source interface{}) {
	es.mutex.RLock()
	targets := make([]ErrorListener, 0, len(es.errorListeners))
	for _, listener := range es.errorListeners {
		targets = append(targets, listener)
	}
	es.mutex.RUnlock()

	event := ErrorEvent{Type: eventType, Key: key, Err: err, Source: source}
	for _, listener := range targets {
		listener.ConfigurationError(event)
	}
}

func isDetailEvent(eventType EventType) bool {
	switch eventType {
	case EventAddProperty, EventSetProperty, EventClearProperty, EventAddNodes:
		return true
	}
	return false
}
