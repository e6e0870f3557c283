package events_test

import (
	"testing"

	"github.com/francefarms/bioestate/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("one")
	ch2 := evts.Acquire("two")

	if evts.Acquire("one") != ch1 {
		t.Fatalf("Should get back the same channel for the same id.")
	}

	evts.Send("ledger: block[1] appended")

	for _, ch := range []chan string{ch1, ch2} {
		if msg := <-ch; msg != "ledger: block[1] appended" {
			t.Fatalf("Should receive the event, got %q.", msg)
		}
	}

	if err := evts.Release("one"); err != nil {
		t.Fatalf("Should be able to release the id: %v", err)
	}

	if _, open := <-ch1; open {
		t.Fatalf("Should close the released channel.")
	}

	if err := evts.Release("one"); err == nil {
		t.Fatalf("Should not be able to release an id twice.")
	}

	evts.Shutdown()

	if _, open := <-ch2; open {
		t.Fatalf("Should close every channel on shutdown.")
	}

	if evts.Len() != 0 {
		t.Fatalf("Should have no receivers after shutdown, got %d.", evts.Len())
	}
}
