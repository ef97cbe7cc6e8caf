package debug_test

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/segmentio/paimon-go/internal/debug"
)

func TestFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	flags := log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	defer log.SetFlags(flags)
	defer log.SetOutput(os.Stderr)
	defer debug.Toggle(false)

	debug.Format("hidden %d", 1)
	debug.Toggle(true)
	debug.Format("shown %d", 2)

	if s := buf.String(); strings.Contains(s, "hidden") || !strings.Contains(s, "shown 2") {
		t.Errorf("unexpected debug output: %q", s)
	}
}

func TestDo(t *testing.T) {
	defer debug.Toggle(false)
	calls := 0
	debug.Do(func() { calls++ })
	debug.Toggle(true)
	debug.Do(func() { calls++ })
	if calls != 1 {
		t.Errorf("wrong number of calls: want=1 got=%d", calls)
	}
}

func TestAssertf(t *testing.T) {
	defer func() {
		r := recover()
		if debug.Invariants && r == nil {
			t.Error("assertion did not panic with invariants enabled")
		}
		if !debug.Invariants && r != nil {
			t.Errorf("assertion panicked without invariants: %v", r)
		}
	}()
	debug.Assertf(false, "broken invariant %d", 42)
}
