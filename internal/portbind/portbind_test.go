package portbind

import (
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
)

// scriptListen replaces the package listen func with one that pops outcomes
// from a script, restoring the real one when the test ends.
func scriptListen(t *testing.T, outcomes []error) *[]string {
	t.Helper()
	var addrs []string
	orig := listen
	listen = func(network, address string) (net.Listener, error) {
		addrs = append(addrs, address)
		if len(outcomes) == 0 {
			t.Fatalf("unexpected listen call on %s", address)
		}
		out := outcomes[0]
		outcomes = outcomes[1:]
		if out != nil {
			return nil, out
		}
		// A real throwaway listener so Bind's caller can close it.
		return net.Listen("tcp", "127.0.0.1:0")
	}
	t.Cleanup(func() { listen = orig })
	return &addrs
}

func TestBind_Success(t *testing.T) {
	scriptListen(t, []error{nil})

	ln, port, err := Bind(12127, 12712, 10)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	defer ln.Close()
	if port < 12127 || port > 12712 {
		t.Errorf("port %d outside range", port)
	}
}

func TestBind_RetriesOnAddrInUse(t *testing.T) {
	addrs := scriptListen(t, []error{syscall.EADDRINUSE, syscall.EADDRINUSE, nil})

	ln, _, err := Bind(12127, 12712, 10)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	defer ln.Close()
	if len(*addrs) != 3 {
		t.Errorf("listen called %d times, want 3", len(*addrs))
	}
}

func TestBind_ExhaustsAttempts(t *testing.T) {
	outcomes := make([]error, 5)
	for i := range outcomes {
		outcomes[i] = syscall.EADDRINUSE
	}
	addrs := scriptListen(t, outcomes)

	_, _, err := Bind(12127, 12712, 5)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *ExhaustedError", err)
	}
	if exhausted.Attempts != 5 || exhausted.From != 12127 || exhausted.To != 12712 {
		t.Errorf("ExhaustedError = %+v", exhausted)
	}
	if len(*addrs) != 5 {
		t.Errorf("listen called %d times, want 5", len(*addrs))
	}
}

func TestBind_FatalOnOtherError(t *testing.T) {
	addrs := scriptListen(t, []error{os.ErrPermission})

	_, _, err := Bind(12127, 12712, 10)
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("error = %v, want wrapped permission error", err)
	}
	if len(*addrs) != 1 {
		t.Errorf("listen called %d times, want no retry on non-contention failure", len(*addrs))
	}
}

func TestBind_InvalidRange(t *testing.T) {
	if _, _, err := Bind(2000, 1000, 10); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestBind_RealListener(t *testing.T) {
	// End to end against the real network stack on a single-port range.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := probe.Addr().(*net.TCPAddr).Port
	probe.Close()

	ln, got, err := Bind(port, port, 3)
	if err != nil {
		t.Skipf("port %d got reclaimed: %v", port, err)
	}
	defer ln.Close()
	if got != port {
		t.Errorf("bound port = %d, want %d", got, port)
	}
}
