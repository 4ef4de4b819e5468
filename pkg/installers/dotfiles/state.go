package dotfiles

import (
	"os"
	"path/filepath"
)

// State is the deployment state of a target relative to its selected
// source. It is derived fresh on every check and never cached, since the
// filesystem may change between command invocations.
type State int

const (
	// StateAbsent means the target does not exist.
	StateAbsent State = iota

	// StateSameFile means source and target are the same file already.
	StateSameFile

	// StateCorrectLink means the target is a symlink resolving to the
	// selected source.
	StateCorrectLink

	// StateWrongLink means the target is a symlink resolving elsewhere,
	// or a broken one that cannot be resolved at all.
	StateWrongLink

	// StateForeignFile means the target exists, is not a symlink, and is
	// not the same file as the source.
	StateForeignFile
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateSameFile:
		return "same file"
	case StateCorrectLink:
		return "linked"
	case StateWrongLink:
		return "wrong link"
	case StateForeignFile:
		return "foreign file"
	default:
		return "unknown"
	}
}

// Deployed reports whether the state requires no reconciliation action.
func (s State) Deployed() bool {
	return s == StateSameFile || s == StateCorrectLink
}

// Classify determines the deployment state of target relative to source.
// The source must exist; callers resolve it before classifying.
func Classify(source, target string) State {
	fi, err := os.Lstat(target)
	if err != nil {
		return StateAbsent
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		// A dangling or unreadable link is a wrong link, not an absent
		// target: it still occupies the path and must be replaced.
		resolvedTarget, err := filepath.EvalSymlinks(target)
		if err != nil {
			return StateWrongLink
		}
		resolvedSource, err := filepath.EvalSymlinks(source)
		if err != nil {
			return StateWrongLink
		}
		if resolvedTarget == resolvedSource {
			return StateCorrectLink
		}
		return StateWrongLink
	}

	srcInfo, err := os.Stat(source)
	if err != nil {
		return StateForeignFile
	}
	tgtInfo, err := os.Stat(target)
	if err != nil {
		return StateForeignFile
	}
	if os.SameFile(srcInfo, tgtInfo) {
		return StateSameFile
	}
	return StateForeignFile
}
