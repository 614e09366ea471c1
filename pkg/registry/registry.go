// Package registry holds the closed set of valid TERN plot identifiers.
// Transfers are only accepted for plots present in the registry.
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultSites is the built-in TERN plot database
var defaultSites = []string{
	"SAAFLB0030", "SAAFLB0031", "SAAMDD0007", "SAAMDD0008", "SAAMDD0009",
	"SAAMDD0010", "SAAMDD0011", "NTAFIN0001", "NTAFIN0002", "NTAFIN0003",
	"NTAFIN0004", "NTAFIN0005", "NTAFIN0006", "NTAFIN0007", "NTAFIN0008",
	"NTAFIN0009", "NTAFIN0010", "NTAFIN0011", "NTAFIN0012", "NTAFIN0013",
	"NTAFIN0014", "NTAFIN0015", "NTAFIN0016", "NTAFIN0017", "NTAFIN0018",
	"NTAFIN0019", "NTAFIN0020", "NTAFIN0021", "NTAFIN0022", "NTAFIN0023",
	"NTAFIN0024", "NTAFIN0025", "NTAFIN0026", "NTAFIN0027",
	"TCFTSR0001", "TCFTSR0002", "TCFTNS0001", "TCFTNS0002",
	"SASMDD0001", "SASMDD0002", "SASMDD0003", "SASMDD0004", "SASMDD0005",
	"SASMDD0006", "SASMDD0008", "SASMDD0009", "SASMDD0010", "SASMDD0011",
	"SASMDD0013",
	"NTABRT0001", "NTABRT0002", "NTABRT0003", "NTABRT0004", "NTABRT0005",
	"NTABRT0006",
	"NTAGFU0001", "NTAGFU0002", "NTAGFU0003", "NTAGFU0004", "NTAGFU0005",
	"NTAGFU0006", "NTAGFU0007", "NTAGFU0008", "NTAGFU0009", "NTAGFU0010",
	"NTAGFU0011", "NTAGFU0012", "NTAGFU0013", "NTAGFU0014", "NTAGFU0015",
	"NTAGFU0016", "NTAGFU0017", "NTAGFU0018", "NTAGFU0019",
	"NSABHC0001", "NSABHC0002", "NSABHC0003", "NSABHC0004", "NSABHC0005",
	"NSABHC0006", "NSABHC0007", "NSABHC0008", "NSABHC0009", "NSABHC0010",
	"NSABHC0011",
}

// Registry is a closed set of valid plot identifiers
type Registry struct {
	sites map[string]struct{}
}

// New returns a registry populated with the built-in site database
func New() *Registry {
	r := &Registry{sites: make(map[string]struct{}, len(defaultSites))}
	for _, s := range defaultSites {
		r.sites[s] = struct{}{}
	}
	return r
}

// overlayFile is the YAML shape of a site overlay file
type overlayFile struct {
	Sites []string `yaml:"sites"`
}

// Load returns the built-in registry, optionally merged with extra sites
// from a YAML overlay file. An empty path returns the built-in registry.
func Load(overlayPath string) (*Registry, error) {
	r := New()
	if overlayPath == "" {
		return r, nil
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}

	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse sites file: %w", err)
	}

	for _, s := range overlay.Sites {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			r.sites[s] = struct{}{}
		}
	}

	return r, nil
}

// Contains reports whether the plot ID is in the registry
func (r *Registry) Contains(plotID string) bool {
	_, ok := r.sites[plotID]
	return ok
}

// Len returns the number of registered plots
func (r *Registry) Len() int {
	return len(r.sites)
}

// All returns every registered plot ID in sorted order
func (r *Registry) All() []string {
	out := make([]string, 0, len(r.sites))
	for s := range r.sites {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
