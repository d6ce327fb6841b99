package ioctl

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Do executes the ioctl call with a pointer argument.
func Do(fd uintptr, command Command, ptr unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(command), uintptr(ptr)); errno != 0 {
		return fmt.Errorf("%s failed: %w", command, errno)
	}
	return nil
}
