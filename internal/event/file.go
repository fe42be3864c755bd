package event

// FileWriteMode selects how FileWrite opens its target path.
type FileWriteMode string

const (
	FileWriteTruncate FileWriteMode = "truncate"
	FileWriteAppend   FileWriteMode = "append"
)

// FileReadConfig reads Path in full and parses it per ResponseContent.
type FileReadConfig struct {
	Path            string
	ResponseContent ContentType
}

// FileWriteConfig writes the event's payload to Path per Mode. Mode
// defaults to FileWriteTruncate when empty.
type FileWriteConfig struct {
	Path string
	Mode FileWriteMode
}

// ResolvedMode returns Mode, defaulting to truncate.
func (c FileWriteConfig) ResolvedMode() FileWriteMode {
	if c.Mode == "" {
		return FileWriteTruncate
	}
	return c.Mode
}

// WatchKind identifies the three file-system changes FileChanged matches.
type WatchKind string

const (
	WatchCreated WatchKind = "created"
	WatchWritten WatchKind = "written"
	WatchRemoved WatchKind = "removed"
)

// WatchConfig starts or stops the shared file watcher over Path.
type WatchConfig struct {
	Action    ApiListenAction // reuses start/stop
	Path      string
	Recursive bool
}

// FileChangedConfig matches a watcher notification by (Path, Kind).
type FileChangedConfig struct {
	Path string
	Kind WatchKind
}

// Matches reports whether a notification for (path, kind) fires this event.
func (c FileChangedConfig) Matches(path string, kind WatchKind) bool {
	return c.Path == path && c.Kind == kind
}
