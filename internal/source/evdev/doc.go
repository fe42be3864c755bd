// Package evdev is the ScanCodeRead source executor. It opens every Linux
// evdev input device named by a catalog entry, reads MSC_SCAN misc events
// off it, and matches each reported scan code against the catalog's
// ScanCodeRead events.
//
// The platform-specific device read loop lives behind the deviceReader
// interface, implemented for Linux in reader_linux.go (using
// github.com/gvalkov/golang-evdev) and stubbed out on every other GOOS in
// reader_other.go, where opening any device fails with ErrUnsupported.
package evdev
