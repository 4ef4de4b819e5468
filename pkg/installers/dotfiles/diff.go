package dotfiles

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/example/devsetup/pkg/errors"
)

// Diff returns a unified diff between the deployed target and the selected
// source for the named entry. An empty name diffs every entry. Entries with
// a missing source or an undeployed target are skipped.
func (i *Installer) Diff(name string) (string, error) {
	var b strings.Builder
	found := false

	for _, e := range i.entries {
		if name != "" && e.Name != name {
			continue
		}
		found = true

		source, _, ok := i.resolveSource(e)
		if !ok {
			continue
		}
		if _, err := os.Stat(e.Target); err != nil {
			continue
		}

		deployed, err := os.ReadFile(e.Target)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", e.Target)
		}
		current, err := os.ReadFile(source)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", source)
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(deployed)),
			B:        difflib.SplitLines(string(current)),
			FromFile: "deployed/" + e.Name,
			ToFile:   "source/" + e.Name,
			Context:  3,
		})
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInternal, "cannot diff %s", e.Name)
		}

		if diff == "" {
			fmt.Fprintf(&b, "No differences in %s\n", e.Name)
		} else {
			b.WriteString(diff)
		}
	}

	if name != "" && !found {
		return "", errors.Newf(errors.ErrNotFound, "no dotfile entry named %s", name)
	}
	return b.String(), nil
}
