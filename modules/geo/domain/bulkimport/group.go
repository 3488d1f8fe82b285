package bulkimport

// Group holds the villages collected for one exact district name.
type Group struct {
	District string
	Villages []string
}

// GroupRows groups rows by exact (case-sensitive) district name. Groups keep
// first-seen order and villages keep row order; duplicates are kept.
func GroupRows(rows []Row) []Group {
	index := make(map[string]int, len(rows))
	groups := make([]Group, 0)
	for _, row := range rows {
		i, ok := index[row.District]
		if !ok {
			i = len(groups)
			index[row.District] = i
			groups = append(groups, Group{District: row.District})
		}
		groups[i].Villages = append(groups[i].Villages, row.Village)
	}
	return groups
}

func countVillages(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Villages)
	}
	return n
}
