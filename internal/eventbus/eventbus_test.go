package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Publish("hello")
	select {
	case e := <-sub:
		if e != "hello" {
			t.Fatalf("unexpected event %v", e)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	// Publishing after unsubscribe must not panic.
	b.Publish(1)
}

func TestCloseDropsSubscribers(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Close()
	if _, ok := <-sub; ok {
		t.Fatalf("channel should be closed")
	}
	if ch := b.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close should return closed channel")
	}
	b.Publish("ignored")
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := New()
	_ = b.Subscribe()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on slow subscriber")
	}
}
