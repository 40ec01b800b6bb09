//go:build darwin || linux

package nettools

import (
	"syscall"

	"golang.org/x/sys/unix"
)

var _ = func() error { // make sure this executes before anything uses probe
	probe = pollAlive
	return nil
}()

func pollAlive(rc syscall.RawConn) bool {
	alive := true
	// according to the source code errors would only happen before the
	// control action, e.g. on a closed *[net.conn]
	err := rc.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, 0) // never block
		if err != nil || n == 0 {
			return
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			alive = false
		}
	})
	return err == nil && alive
}
