package action

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jobharvest/dbinit/internal/core/ports"
)

// commandAction runs an external executable as the initialization action.
// Stdout, stderr and the environment are inherited so the child's output
// lands in the same log stream as the sequencer's.
type commandAction struct {
	path string
	args []string
}

// NewCommand creates an action that runs the given executable with arguments.
func NewCommand(path string, args ...string) ports.InitAction {
	return &commandAction{path: path, args: args}
}

// ParseCommand builds an action from a whitespace-separated command line,
// as supplied via INIT_COMMAND.
func ParseCommand(commandLine string) (ports.InitAction, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty init command")
	}
	return NewCommand(fields[0], fields[1:]...), nil
}

func (a *commandAction) Name() string {
	return a.path
}

func (a *commandAction) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, a.path, a.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	return cmd.Run()
}
