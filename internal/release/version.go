// Package release models individual releases, the feed's channel
// categorization, and the projection of that feed into a version-aware
// release history.
package release

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a four-component version tuple: major.minor.build.patch.
// The patch component is optional in dotted form and treated as 0 when
// absent. Comparison is total: components compare left to right.
type Version struct {
	Major, Minor, Build, Patch int
}

// ParseVersion parses a dotted version string such as "1.5.2" or "1.5.2.3".
// Whitespace around the string is tolerated.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("release: empty version string")
	}

	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Version{}, fmt.Errorf("release: invalid version %q", s)
	}

	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("release: invalid version component %q in %q", p, s)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Build: nums[2], Patch: nums[3]}, nil
}

// Compare returns -1, 0, or 1 depending on whether v is less than, equal to,
// or greater than other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return cmpInt(v.Major, other.Major)
	case v.Minor != other.Minor:
		return cmpInt(v.Minor, other.Minor)
	case v.Build != other.Build:
		return cmpInt(v.Build, other.Build)
	default:
		return cmpInt(v.Patch, other.Patch)
	}
}

// GreaterThan reports whether v is strictly greater than other.
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }

// LessThanOrEqual reports whether v is less than or equal to other.
func (v Version) LessThanOrEqual(other Version) bool { return v.Compare(other) <= 0 }

// Equal reports whether v and other are the same version.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// String renders the version in dotted four-component form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Patch)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
