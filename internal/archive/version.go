package archive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zinspect/zinspect/internal/errors"
)

const (
	// VersionFile is the member zdiag writes its own version to.
	VersionFile = "0_version.txt"
	// MinCollectorVersion is the oldest zdiag whose output parses correctly.
	MinCollectorVersion = 20250809
)

// FindVersionFile returns the first non-directory member named VersionFile
// in any folder.
func FindVersionFile(members []Member) (Member, bool) {
	for _, m := range members {
		if !m.IsDir && strings.HasSuffix(m.Name, VersionFile) {
			return m, true
		}
	}
	return Member{}, false
}

// CollectorVersion returns the version recorded in text: the first word of
// the last line that is neither blank nor a '#' comment.
func CollectorVersion(text string) (string, int, error) {
	var last string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		last = strings.TrimSpace(line)
	}
	if last == "" {
		return "", 0, errors.New(errors.ErrVersion,
			"Can't determine the collector version",
			VersionFile+" has no version line")
	}

	n, err := strconv.Atoi(strings.Fields(last)[0])
	if err != nil {
		return last, 0, errors.WrapWithCode(err, errors.ErrVersion,
			fmt.Sprintf("Malformed collector version %q in %s", last, VersionFile),
			"Re-create the bundle with a current zdiag")
	}
	return last, n, nil
}

// ValidateCollectorVersion checks that the bundle was produced by a collector
// at least min. It returns the version string as recorded.
func ValidateCollectorVersion(members []Member, min int) (string, error) {
	vf, ok := FindVersionFile(members)
	if !ok {
		return "", errors.New(errors.ErrVersion,
			"Collector version file not found",
			"The bundle was probably produced by an outdated zdiag; re-collect it or pass --skip-version-check")
	}

	raw, n, err := CollectorVersion(vf.Text)
	if err != nil {
		return raw, err
	}
	if n < min {
		return raw, errors.New(errors.ErrVersion,
			fmt.Sprintf("Collector version %d is too old, need at least %d", n, min),
			"Re-collect the bundle with a newer zdiag or pass --skip-version-check")
	}
	return raw, nil
}
