package evdev

import (
	"context"
	"errors"

	"eventflow/internal/catalog"
	"eventflow/internal/event"
	"eventflow/internal/payload"
	"eventflow/pkg/logging"
)

const subsys = "Evdev"

// ErrUnsupported is returned by a device open on a GOOS without a real
// deviceReader implementation.
var ErrUnsupported = errors.New("evdev: not supported on this platform")

// deviceReader abstracts the platform-specific half of reading scan codes
// off one input device.
type deviceReader interface {
	// ReadScanCode blocks until the next MSC_SCAN misc event and returns
	// its integer value, or an error if the device is unreadable or ctx
	// is cancelled.
	ReadScanCode(ctx context.Context) (int, error)
	Close() error
}

// openDevice is replaced per-platform; see reader_linux.go / reader_other.go.
var openDevice func(path string) (deviceReader, error)

type scanArrival struct {
	device string
	code   int
}

// Source is the ScanCodeRead source executor. It holds one deviceReader per
// distinct device path named by a catalog ScanCodeRead event.
type Source struct {
	catalog *catalog.Catalog
	mainQ   chan<- *event.ReferencingEvent

	readers  map[string]deviceReader
	incoming chan scanArrival
}

// New opens one deviceReader per distinct device path referenced by the
// catalog's ScanCodeRead events. A device that fails to open is logged and
// skipped rather than failing the whole executor, since evdev devices are
// commonly unavailable in non-Linux or containerized environments.
func New(cat *catalog.Catalog, mainQ chan<- *event.ReferencingEvent) *Source {
	s := &Source{
		catalog:  cat,
		mainQ:    mainQ,
		readers:  make(map[string]deviceReader),
		incoming: make(chan scanArrival, 64),
	}

	devices := make(map[string]bool)
	cat.Each(func(e *event.ReferencingEvent) bool {
		if cfg, ok := e.Config.(*event.ScanCodeReadConfig); ok {
			devices[cfg.Device] = true
		}
		return true
	})

	for path := range devices {
		r, err := openDevice(path)
		if err != nil {
			logging.Error(subsys, err, "open %s", path)
			continue
		}
		s.readers[path] = r
	}
	return s
}

// Run starts one read goroutine per opened device and drains matches until
// ctx is cancelled.
func (s *Source) Run(ctx context.Context) {
	for path, r := range s.readers {
		go s.readLoop(ctx, path, r)
	}

	for {
		select {
		case <-ctx.Done():
			for _, r := range s.readers {
				_ = r.Close()
			}
			return
		case a := <-s.incoming:
			s.handle(a)
		}
	}
}

func (s *Source) readLoop(ctx context.Context, path string, r deviceReader) {
	for {
		code, err := r.ReadScanCode(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Error(subsys, err, "read %s", path)
			return
		}
		select {
		case s.incoming <- scanArrival{device: path, code: code}:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Source) handle(a scanArrival) {
	var matched *event.ReferencingEvent
	s.catalog.Each(func(e *event.ReferencingEvent) bool {
		cfg, ok := e.Config.(*event.ScanCodeReadConfig)
		if !ok {
			return true
		}
		if cfg.Device == a.device && cfg.Matches(a.code) {
			matched = e
			return false
		}
		return true
	})
	if matched == nil {
		return
	}

	next, ok := s.catalog.ResolveNext(matched)
	if !ok {
		return
	}
	clone := next.Clone()
	clone.Payload = clone.Payload.Merge(matched.Payload)
	clone.Metadata = clone.Metadata.Merge(payload.Metadata{
		matched.Name: map[string]interface{}{
			"device": a.device,
			"code":   a.code,
		},
	})
	s.mainQ <- clone
}
