package event

// PrintTarget selects which stream Print writes to.
type PrintTarget string

const (
	PrintStdout PrintTarget = "stdout"
	PrintStderr PrintTarget = "stderr"
)

// PrintConfig writes the event's payload's debug rendering to Target.
type PrintConfig struct {
	Target PrintTarget
}

// ResolvedTarget returns Target, defaulting to stdout.
func (c PrintConfig) ResolvedTarget() PrintTarget {
	if c.Target == "" {
		return PrintStdout
	}
	return c.Target
}
