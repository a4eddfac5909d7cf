package launcher

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

// RunningProcesses lists the names of all running processes. Processes
// that exit or deny access while being listed are skipped.
func RunningProcesses(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
