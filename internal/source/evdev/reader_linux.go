//go:build linux

package evdev

import (
	"context"
	"fmt"

	linuxevdev "github.com/gvalkov/golang-evdev"
)

const (
	evMSC   = 0x04 // EV_MSC
	mscScan = 0x04 // MSC_SCAN
)

func init() {
	openDevice = openLinuxDevice
}

type linuxReader struct {
	dev *linuxevdev.InputDevice
}

func openLinuxDevice(path string) (deviceReader, error) {
	dev, err := linuxevdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evdev: open %s: %w", path, err)
	}
	return &linuxReader{dev: dev}, nil
}

// ReadScanCode blocks on the device's event stream until an EV_MSC/MSC_SCAN
// event arrives, skipping every other event type (key up/down, sync, etc).
func (r *linuxReader) ReadScanCode(ctx context.Context) (int, error) {
	for {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		ev, err := r.dev.ReadOne()
		if err != nil {
			return 0, fmt.Errorf("evdev: read: %w", err)
		}
		if ev.Type == evMSC && ev.Code == mscScan {
			return int(ev.Value), nil
		}
	}
}

func (r *linuxReader) Close() error {
	return r.dev.File.Close()
}
