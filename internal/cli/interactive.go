package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ternuav/dronescape/pkg/assign"
	"github.com/ternuav/dronescape/pkg/models"
	"github.com/ternuav/dronescape/pkg/registry"
)

// resolveInteractively walks the operator through assigning each SET
// folder to a plot. "back" revokes the previous answer, "abort" cancels
// the run, anything else is taken as a plot ID.
func resolveInteractively(
	sets []models.SetAssignment,
	reg *registry.Registry,
	in io.Reader,
	out io.Writer,
) (models.AssignmentPlan, error) {
	resolver := assign.NewResolver(sets, reg)
	scanner := bufio.NewScanner(in)

	if len(sets) > 0 {
		fmt.Fprintf(out, "Found %d SET folder(s) to assign.\n", len(sets))
		fmt.Fprintln(out, "Enter a plot ID for each, 'back' to revise, 'abort' to cancel.")
	}

	for resolver.State() == assign.StateCollecting {
		current, _ := resolver.Current()
		fmt.Fprintf(out, "[%d left] %s (%d subfolder(s)) -> ",
			resolver.Remaining(), current.SetName, len(current.Subfolders))

		if !scanner.Scan() {
			resolver.Abort()
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(answer) {
		case "":
			continue
		case "back", "b":
			if err := resolver.Back(); err != nil {
				fmt.Fprintln(out, err)
			}
		case "abort", "q", "quit":
			resolver.Abort()
		default:
			if err := resolver.Assign(strings.ToUpper(answer)); err != nil {
				fmt.Fprintln(out, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return models.AssignmentPlan{}, fmt.Errorf("failed to read input: %w", err)
	}

	if resolver.State() == assign.StateAborted {
		return models.AssignmentPlan{}, fmt.Errorf("assignment aborted")
	}
	return resolver.Plan()
}
