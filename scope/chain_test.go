package scope

import (
	"reflect"
	"testing"
)

func TestChain_AttachCreatesOnce(t *testing.T) {
	c := NewChain()

	ns1, created := c.Attach("imports")
	if !created {
		t.Error("first Attach did not report created")
	}
	ns2, created := c.Attach("imports")
	if created {
		t.Error("second Attach reported created")
	}
	if ns1 != ns2 {
		t.Error("Attach returned different namespaces for same name")
	}
	if ns1.Name() != "imports" {
		t.Errorf("namespace name = %q", ns1.Name())
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestChain_FrontInsertionOrder(t *testing.T) {
	c := NewChain()
	c.Attach("a")
	c.Attach("b")
	c.Attach("c")

	if !reflect.DeepEqual(c.Names(), []string{"c", "b", "a"}) {
		t.Errorf("Names = %v", c.Names())
	}
}

func TestChain_PositionStableOnReattach(t *testing.T) {
	c := NewChain()
	c.Attach("a")
	c.Attach("b")
	c.Attach("a") // must not move or duplicate

	if !reflect.DeepEqual(c.Names(), []string{"b", "a"}) {
		t.Errorf("Names = %v after re-attach", c.Names())
	}
}

func TestChain_Detach(t *testing.T) {
	c := NewChain()
	c.Attach("a")
	c.Attach("b")

	if !c.Detach("a") {
		t.Error("Detach(a) = false")
	}
	if c.Detach("a") {
		t.Error("second Detach(a) = true")
	}
	if c.Lookup("a") != nil {
		t.Error("Lookup(a) non-nil after detach")
	}
	if !reflect.DeepEqual(c.Names(), []string{"b"}) {
		t.Errorf("Names = %v after detach", c.Names())
	}
}

type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) OnChainEvent(ev Event) {
	r.events = append(r.events, ev)
}

func TestChain_Observers(t *testing.T) {
	c := NewChain()
	obs := &recordingObserver{}
	c.Subscribe(obs)

	ns, _ := c.Attach("imports")
	ns.Set("x", 1)
	c.NoteUpdated("imports")
	c.NoteUpdated("missing") // no event
	c.Detach("imports")

	want := []EventType{EventAttached, EventUpdated, EventDetached}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, ev := range obs.events {
		if ev.Type != want[i] {
			t.Errorf("event %d type = %v, want %v", i, ev.Type, want[i])
		}
		if ev.Name != "imports" {
			t.Errorf("event %d name = %q", i, ev.Name)
		}
	}

	c.Unsubscribe(obs)
	c.Attach("other")
	if len(obs.events) != len(want) {
		t.Error("observer received events after Unsubscribe")
	}
}
