package assign

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ternuav/dronescape/pkg/models"
	"github.com/ternuav/dronescape/pkg/registry"
)

// LoadPlan reads a saved assignment plan from a YAML file and validates
// every plot against the registry. A plan written by a previous run stays
// usable as long as its plots remain registered.
func LoadPlan(path string, reg *registry.Registry) (models.AssignmentPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AssignmentPlan{}, fmt.Errorf("failed to read assignment file: %w", err)
	}

	var plan models.AssignmentPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return models.AssignmentPlan{}, fmt.Errorf("failed to parse assignment file: %w", err)
	}

	for _, a := range plan.Assignments {
		if a.SetName == "" {
			return models.AssignmentPlan{}, &models.ValidationError{
				Field:   "set",
				Message: "assignment with empty SET name",
			}
		}
		if !reg.Contains(a.PlotID) {
			return models.AssignmentPlan{}, &models.ValidationError{
				Field:   "plot_id",
				Message: fmt.Sprintf("unknown plot %q for SET %s", a.PlotID, a.SetName),
			}
		}
	}
	return plan, nil
}

// SavePlan writes a confirmed plan to a YAML file so later runs can skip
// the interactive assignment.
func SavePlan(path string, plan models.AssignmentPlan) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode assignment plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write assignment file: %w", err)
	}
	return nil
}
