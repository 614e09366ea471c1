// Package assign resolves which destination plot each MicaSense capture
// session (SET folder) belongs to. SET folders carry no plot information
// of their own, so the mapping comes either from an operator working
// through the resolver state machine or from a saved assignment file.
package assign

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternuav/dronescape/pkg/models"
)

// setSuffix marks capture-session folders on the camera storage
const setSuffix = "SET"

// DiscoverSets scans the RED and BLUE camera roots for SET folders and
// returns their union, sorted by name, with the numbered subfolders of
// each. A directory counts as a SET when its name ends in "SET" and it
// contains at least one all-digit subfolder. A missing root is skipped;
// both roots missing is an error.
func DiscoverSets(redRoot, blueRoot string) ([]models.SetAssignment, error) {
	subfolders := make(map[string]map[string]struct{})

	seen := 0
	for _, root := range []string{redRoot, blueRoot} {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read camera root %s: %w", root, err)
		}
		seen++

		for _, entry := range entries {
			if !entry.IsDir() || !strings.HasSuffix(entry.Name(), setSuffix) {
				continue
			}
			members, err := digitSubfolders(filepath.Join(root, entry.Name()))
			if err != nil {
				return nil, err
			}
			if len(members) == 0 {
				continue
			}
			if subfolders[entry.Name()] == nil {
				subfolders[entry.Name()] = make(map[string]struct{})
			}
			for _, m := range members {
				subfolders[entry.Name()][m] = struct{}{}
			}
		}
	}
	if seen == 0 {
		return nil, fmt.Errorf("no camera root found at %s or %s", redRoot, blueRoot)
	}

	names := make([]string, 0, len(subfolders))
	for name := range subfolders {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]models.SetAssignment, 0, len(names))
	for _, name := range names {
		members := make([]string, 0, len(subfolders[name]))
		for m := range subfolders[name] {
			members = append(members, m)
		}
		sort.Strings(members)
		sets = append(sets, models.SetAssignment{SetName: name, Subfolders: members})
	}
	return sets, nil
}

// digitSubfolders lists the all-digit child directories of a SET folder
func digitSubfolders(setPath string) ([]string, error) {
	entries, err := os.ReadDir(setPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SET folder %s: %w", setPath, err)
	}
	var members []string
	for _, entry := range entries {
		if entry.IsDir() && isDigits(entry.Name()) {
			members = append(members, entry.Name())
		}
	}
	return members, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
