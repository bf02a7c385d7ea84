//go:build profile && windows

package profiler

import "syscall"

// hideWindowAttr keeps the viewer launch from flashing a console window.
func hideWindowAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{HideWindow: true}
}
