package strata

import (
	"strings"
	"testing"
)

func TestEventsBeforeAndAfter(t *testing.T) {
	config := NewBaseConfiguration()

	var received []ConfigurationEvent
	config.Events().AddListenerFunc(EventSetProperty, func(event ConfigurationEvent) {
		received = append(received, event)
	})

	config.SetProperty("key", "value")

	if len(received) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(received))
	}
	if !received[0].Before || received[1].Before {
		t.Error("Expected a before event followed by an after event")
	}
	if received[0].Key != "key" || received[0].Value != "value" {
		t.Errorf("Unexpected event payload: %+v", received[0])
	}
	if received[0].Type != EventSetProperty {
		t.Errorf("Expected setProperty, got %s", received[0].Type)
	}
	if received[0].Source != Configuration(config) {
		t.Error("Event source should be the configuration")
	}
}

func TestEventsAnyReceivesEverything(t *testing.T) {
	config := NewBaseConfiguration()

	var types []EventType
	config.Events().AddListenerFunc(EventAny, func(event ConfigurationEvent) {
		if !event.Before {
			types = append(types, event.Type)
		}
	})

	config.AddProperty("a", 1)
	config.SetProperty("a", 2)
	config.ClearProperty("a")
	config.Clear()

	expected := []EventType{EventAddProperty, EventSetProperty, EventClearProperty, EventClear}
	if len(types) != len(expected) {
		t.Fatalf("Expected %d events, got %d", len(expected), len(types))
	}
	for i, eventType := range expected {
		if types[i] != eventType {
			t.Errorf("Expected %s at %d, got %s", eventType, i, types[i])
		}
	}
}

func TestEventsTypedListenerFiltered(t *testing.T) {
	config := NewBaseConfiguration()

	count := 0
	config.Events().AddListenerFunc(EventClearProperty, func(event ConfigurationEvent) {
		count++
	})

	config.SetProperty("key", "value")
	if count != 0 {
		t.Error("A setProperty mutation must not reach a clearProperty listener")
	}

	config.ClearProperty("key")
	if count != 2 {
		t.Errorf("Expected before and after events, got %d", count)
	}
}

func TestEventsRemoveListener(t *testing.T) {
	config := NewBaseConfiguration()

	count := 0
	registration := config.Events().AddListenerFunc(EventAny, func(event ConfigurationEvent) {
		count++
	})

	config.SetProperty("a", 1)
	seen := count

	if !config.Events().RemoveListener(registration) {
		t.Error("RemoveListener should succeed")
	}
	if config.Events().RemoveListener(registration) {
		t.Error("Removing twice should fail")
	}

	config.SetProperty("b", 2)
	if count != seen {
		t.Error("A removed listener must not receive events")
	}
}

func TestEventsSuspendedDuringLoad(t *testing.T) {
	var detail int
	config := NewPropertiesConfiguration()
	config.Events().AddListenerFunc(EventAddProperty, func(event ConfigurationEvent) {
		detail++
	})

	if err := config.Read(strings.NewReader("a = 1\nb = 2\n"), ""); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if detail != 0 {
		t.Errorf("Per-property events must be suspended while loading, got %d", detail)
	}
	if !config.Events().DetailEvents() {
		t.Error("Detail events should be back on after the load")
	}

	config.AddProperty("c", 3)
	if detail != 2 {
		t.Errorf("Expected detail events after the load, got %d", detail)
	}
}

func TestEventsReadFiredAroundLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "app.properties", "key = value\n")

	var reads []bool
	config := NewPropertiesConfiguration()
	config.Events().AddListenerFunc(EventRead, func(event ConfigurationEvent) {
		reads = append(reads, event.Before)
	})

	if err := config.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(reads) != 2 || !reads[0] || reads[1] {
		t.Errorf("Expected before/after read events, got %v", reads)
	}
}

func TestEventsErrorListener(t *testing.T) {
	config := NewPropertiesConfiguration()

	var errs []ErrorEvent
	config.Events().AddErrorListener(ErrorListenerFunc(func(event ErrorEvent) {
		errs = append(errs, event)
	}))

	if err := config.Load("/no/such/file.properties"); err == nil {
		t.Fatal("Expected a load error")
	}

	if len(errs) != 1 {
		t.Fatalf("Expected 1 error event, got %d", len(errs))
	}
	if errs[0].Type != EventRead {
		t.Errorf("Expected a read error, got %s", errs[0].Type)
	}
	if errs[0].Err == nil {
		t.Error("Error event should carry the error")
	}
}

func TestEventsHasListeners(t *testing.T) {
	config := NewBaseConfiguration()

	if config.Events().HasListeners(EventSetProperty) {
		t.Error("No listeners registered yet")
	}

	config.Events().AddListenerFunc(EventAny, func(event ConfigurationEvent) {})
	if !config.Events().HasListeners(EventSetProperty) {
		t.Error("An EventAny listener should count for every type")
	}
}

func TestEventTypeString(t *testing.T) {
	if EventSetProperty.String() != "setProperty" {
		t.Errorf("Unexpected name '%s'", EventSetProperty)
	}
	if EventType(999).String() != "unknown" {
		t.Errorf("Unexpected name for unknown type")
	}
}
