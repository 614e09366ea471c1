package models

// SetAssignment maps a capture-session (SET) folder to its destination plot.
// Built interactively or loaded from a file; immutable once confirmed.
type SetAssignment struct {
	// SetName is the SET folder name on the camera storage, e.g. "0000SET"
	SetName string `yaml:"set"`

	// PlotID is the destination plot identifier, e.g. "NTAFIN0001"
	PlotID string `yaml:"plot_id"`

	// Subfolders are the numbered member folders inside the SET,
	// in ascending order ("000", "001", ...)
	Subfolders []string `yaml:"subfolders"`
}

// AssignmentPlan is the confirmed set of assignments for a multi-spectral
// transfer run
type AssignmentPlan struct {
	Assignments []SetAssignment `yaml:"assignments"`
}

// ByPlot groups the assigned SET folder names by plot ID
func (p AssignmentPlan) ByPlot() map[string][]string {
	groups := make(map[string][]string)
	for _, a := range p.Assignments {
		groups[a.PlotID] = append(groups[a.PlotID], a.SetName)
	}
	return groups
}

// Lookup returns the assignment for a SET folder name
func (p AssignmentPlan) Lookup(setName string) (SetAssignment, bool) {
	for _, a := range p.Assignments {
		if a.SetName == setName {
			return a, true
		}
	}
	return SetAssignment{}, false
}
