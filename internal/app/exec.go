package app

import (
	"bytes"
	"os/exec"
)

// osExecPort implements dispatcher.ExecPort over os/exec, the ambient
// choice for subprocess execution (no third-party process-management
// library is in the example pack).
type osExecPort struct{}

func (osExecPort) Run(command string, args []string, env map[string]string, stdin []byte) ([]byte, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	if len(env) > 0 {
		cmd.Env = append(cmd.Env, cmd.Environ()...)
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}
