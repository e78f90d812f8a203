package rmatest

import (
	"net"
	"time"

	"github.com/stretchr/testify/require"
)

// ListenReceive waits for the first net.Addr sent to ch, typically by a server
// built with CaptureListenAddress.  If nothing arrives within timeout, the
// enclosing test fails immediately.
func ListenReceive(t any, ch <-chan net.Addr, timeout time.Duration) net.Addr {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case a := <-ch:
		return a

	case <-timer.C:
		require.FailNow(AsTestable(t), "no listen address received", "timeout: %s", timeout)
		return nil
	}
}

// ListenURL is like ListenReceive, but returns a base URL for the address.
func ListenURL(t any, scheme string, ch <-chan net.Addr, timeout time.Duration) string {
	a := ListenReceive(t, ch, timeout)
	if a == nil {
		return ""
	}

	return scheme + "://" + a.String()
}
