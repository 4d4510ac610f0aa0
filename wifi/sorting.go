package wifi

import "sort"

// DedupeProfiles drops repeated SSIDs, keeping the first occurrence.
func DedupeProfiles(profiles []NetworkProfile) []NetworkProfile {
	seen := make(map[string]bool, len(profiles))
	result := make([]NetworkProfile, 0, len(profiles))
	for _, p := range profiles {
		if seen[p.SSID] {
			continue
		}
		seen[p.SSID] = true
		result = append(result, p)
	}
	return result
}

// SortProfiles sorts a slice of NetworkProfile structs in place.
// The sorting order is:
// 1. Favorites first, in the order they were added.
// 2. Fallback to SSID alphabetically.
// Favorites are matched on cleaned SSIDs.
func SortProfiles(profiles []NetworkProfile, favorites []string) {
	rank := make(map[string]int, len(favorites))
	for i, f := range favorites {
		key := CleanSSID(f)
		if _, ok := rank[key]; !ok {
			rank[key] = i
		}
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		a, aFav := rank[CleanSSID(profiles[i].SSID)]
		b, bFav := rank[CleanSSID(profiles[j].SSID)]

		if aFav != bFav {
			return aFav
		}
		if aFav && a != b {
			return a < b
		}

		return profiles[i].SSID < profiles[j].SSID
	})
}
