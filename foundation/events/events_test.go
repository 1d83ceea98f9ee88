package events_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out events to subscribers.")
	{
		t.Logf("\tTest 0:\tWhen two subscribers are registered.")
		{
			evts := events.New()

			id1, ch1 := evts.Acquire()
			id2, ch2 := evts.Acquire()

			if id1 == id2 {
				t.Fatalf("\t%s\tTest 0:\tShould get unique ids: %s", failed, id1)
			}
			t.Logf("\t%s\tTest 0:\tShould get unique ids.", success)

			evts.Send("mined")

			if msg := <-ch1; msg != "mined" {
				t.Fatalf("\t%s\tTest 0:\tShould deliver to the first subscriber: got %q", failed, msg)
			}
			if msg := <-ch2; msg != "mined" {
				t.Fatalf("\t%s\tTest 0:\tShould deliver to the second subscriber: got %q", failed, msg)
			}
			t.Logf("\t%s\tTest 0:\tShould deliver to both subscribers.", success)

			if err := evts.Release(id1); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to release: %v", failed, err)
			}
			if _, open := <-ch1; open {
				t.Fatalf("\t%s\tTest 0:\tShould close the released channel.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould close the released channel.", success)

			if err := evts.Release(id1); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould fail to release twice.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould fail to release twice.", success)

			evts.Shutdown()
			if _, open := <-ch2; open {
				t.Fatalf("\t%s\tTest 0:\tShould close every channel on shutdown.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould close every channel on shutdown.", success)
		}

		t.Logf("\tTest 1:\tWhen a subscriber falls behind.")
		{
			evts := events.New()
			_, ch := evts.Acquire()

			for i := 0; i < 150; i++ {
				evts.Send("tick")
			}

			if len(ch) != 100 {
				t.Fatalf("\t%s\tTest 1:\tShould drop messages past the buffer: got %d", failed, len(ch))
			}
			t.Logf("\t%s\tTest 1:\tShould drop messages past the buffer.", success)
		}
	}
}
