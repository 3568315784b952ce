// Package deps reports whether the external programs emojipick shells out
// to are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program emojipick relies on. Fallbacks are
// tried in order when Command is not on PATH.
type Requirement struct {
	Name        string
	Command     string
	Fallbacks   []string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		candidates := append([]string{cmd}, req.Fallbacks...)
		for _, candidate := range candidates {
			if _, err := exec.LookPath(candidate); err == nil {
				status.Command = candidate
				status.Available = true
				break
			}
		}
		if !status.Available {
			status.Detail = fmt.Sprintf("binary %q not found", strings.Join(candidates, `" or "`))
		}
		results = append(results, status)
	}
	return results
}
