package classify

import "strings"

// UnknownPlot is returned when no plot ID can be extracted from a folder name
const UnknownPlot = "UNKNOWN"

// PlotIDParser extracts a plot identifier from a source folder name.
// The naming convention on the capture devices is a fragile convention, so
// it is kept behind an interface: alternate conventions can be substituted
// without touching the pipelines.
type PlotIDParser interface {
	// Parse returns the plot ID embedded in the folder name, or UnknownPlot
	Parse(folderName string) string
}

// DashParser implements the DJI convention: the plot ID is the
// second-to-last dash-separated token of the folder name, e.g.
// "DJI_202501151030_001-NTAFIN0001-L2" -> "NTAFIN0001".
type DashParser struct{}

// NewDashParser creates the default folder-name parser
func NewDashParser() DashParser {
	return DashParser{}
}

// Parse extracts the second-to-last dash token, or UnknownPlot when the
// name has fewer than two dash-separated tokens.
func (DashParser) Parse(folderName string) string {
	parts := strings.Split(folderName, "-")
	if len(parts) < 2 {
		return UnknownPlot
	}
	id := parts[len(parts)-2]
	if id == "" {
		return UnknownPlot
	}
	return id
}
