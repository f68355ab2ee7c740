package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[string]()
	ch := bus.Subscribe()
	bus.Publish("hello")
	if v := <-ch; v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("channel must be closed after unsubscribe")
	}
}

func TestBusNonBlockingPublish(t *testing.T) {
	bus := New[int]()
	ch := bus.Subscribe()
	// Overflow the buffer; Publish must not block.
	for i := 0; i < subBuffer+5; i++ {
		bus.Publish(i)
	}
	if v := <-ch; v != 0 {
		t.Fatalf("expected first event got %d", v)
	}
	bus.Close()
}

func TestBusClose(t *testing.T) {
	bus := New[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("ch1 open after close")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("ch2 open after close")
	}
	// Publishing and closing again are harmless no-ops.
	bus.Publish(1)
	bus.Close()
	if ch := bus.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close must return a closed channel")
	}
}
