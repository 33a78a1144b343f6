package tracefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"
)

// RepairText fixes the endings that interrupted tracers leave behind: a
// trailing comma after the last object, a comma before the closing bracket,
// and a missing closing bracket. Text that needs no fix is returned as is,
// trailing whitespace included. JSON Object Format traces are not touched.
func RepairText(text string) string {
	if strings.HasPrefix(strings.TrimLeftFunc(text, unicode.IsSpace), "{") {
		return text
	}

	orig := trimRight(text)
	fixed := trimRight(strings.TrimSuffix(orig, ","))
	if strings.HasSuffix(fixed, "]") {
		body := trimRight(fixed[:len(fixed)-1])
		if strings.HasSuffix(body, ",") {
			fixed = trimRight(body[:len(body)-1]) + "\n]"
		}
	} else {
		fixed += "\n]"
	}

	if fixed == orig {
		return text
	}
	return fixed + "\n"
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Repair applies RepairText to the file at path and writes the result back
// when it changed. Repairing a well-formed file is a no-op.
func Repair(path string) (bool, error) {
	data, err := readFragment(path)
	if err != nil {
		return false, err
	}
	_, changed, err := repairBytes(path, data)
	return changed, err
}

func repairBytes(path string, data []byte) ([]byte, bool, error) {
	fixed := RepairText(string(data))
	if fixed == string(data) {
		return data, false, nil
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(fixed), mode); err != nil {
		return nil, false, fmt.Errorf("failed to write repaired trace %q: %w", path, err)
	}
	return []byte(fixed), true, nil
}

func readFragment(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("failed to read trace %q: %w", path, err)
	}
	return data, nil
}
