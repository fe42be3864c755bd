//go:build !linux

package evdev

import "context"

func init() {
	openDevice = openUnsupportedDevice
}

type unsupportedReader struct{}

func openUnsupportedDevice(path string) (deviceReader, error) {
	return nil, ErrUnsupported
}

func (unsupportedReader) ReadScanCode(ctx context.Context) (int, error) {
	return 0, ErrUnsupported
}

func (unsupportedReader) Close() error {
	return nil
}
