//go:build windows

package api

import "syscall"

// WSAECONNRESET and WSAECONNREFUSED
var transientErrnos = []syscall.Errno{
	syscall.Errno(10054),
	syscall.Errno(10061),
}
