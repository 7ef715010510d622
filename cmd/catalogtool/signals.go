package main

import (
	"os"
	"syscall"
)

// terminationSignals are the signals that request a graceful shutdown,
// grounded on cmd/signals.go's TerminationSignals list.
var terminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}
