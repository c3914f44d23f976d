package release

import "sort"

// View is the result of projecting a Collection through a current version
// and an early-access toggle.
type View struct {
	History []Release
	New     *Release
}

// Project computes the visible release history and, if any, the new
// release — the highest-version installable release strictly above
// currentVersion that is reachable given earlyAccessEnabled.
//
// With earlyAccessEnabled=false, History contains every stable release plus
// any early-access release strictly above currentVersion and at or below the
// newest stable release (the upgrade path a stable-channel user would pass
// through), and any early-access release exactly equal to currentVersion —
// representing the currently running build when it happens to have shipped
// from the early-access channel. With earlyAccessEnabled=true, History
// contains every release regardless of channel.
//
// Within both modes, History is sorted strictly descending by version; ties
// retain the source (collection) order.
func Project(col *Collection, currentVersion Version, earlyAccessEnabled bool) View {
	if col == nil {
		return View{}
	}

	var history []Release
	if earlyAccessEnabled {
		history = append(history, col.Releases...)
	} else {
		newestStable := newestStableVersion(col.Releases)
		for _, r := range col.Releases {
			if includeInStableHistory(r, currentVersion, newestStable) {
				history = append(history, r)
			}
		}
	}

	sortDescendingStable(history)

	newRelease := findNew(col.Releases, currentVersion, earlyAccessEnabled)

	return View{History: history, New: newRelease}
}

func includeInStableHistory(r Release, currentVersion Version, newestStable *Version) bool {
	if !r.EarlyAccess {
		return true
	}
	if r.Version.Equal(currentVersion) {
		return true
	}
	if newestStable == nil {
		return false
	}
	return r.Version.GreaterThan(currentVersion) && r.Version.LessThanOrEqual(*newestStable)
}

func newestStableVersion(releases []Release) *Version {
	var best *Version
	for i := range releases {
		r := releases[i]
		if r.EarlyAccess {
			continue
		}
		if best == nil || r.Version.GreaterThan(*best) {
			v := r.Version
			best = &v
		}
	}
	return best
}

// findNew returns the highest-version installable release strictly above
// currentVersion that is reachable given earlyAccessEnabled, or nil.
func findNew(releases []Release, currentVersion Version, earlyAccessEnabled bool) *Release {
	var best *Release
	for i := range releases {
		r := releases[i]
		if !earlyAccessEnabled && r.EarlyAccess {
			continue
		}
		if !r.IsNew(currentVersion) {
			continue
		}
		if best == nil || r.Version.GreaterThan(best.Version) {
			rc := r
			best = &rc
		}
	}
	return best
}

// sortDescendingStable sorts releases strictly descending by version,
// preserving the relative order of equal versions.
func sortDescendingStable(releases []Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].Version.GreaterThan(releases[j].Version)
	})
}
