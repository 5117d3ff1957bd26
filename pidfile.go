package main

import (
	"fmt"
	"os"
)

// writePIDFile writes the current process id (spec §4.7 "bind listeners"
// startup step and §9's PID-file reference). Left in place on a crash so an
// operator can tell a crash from a clean exit; removed by removePIDFile on
// clean shutdown.
func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644)
}

func removePIDFile(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
