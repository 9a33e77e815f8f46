// Package labels loads the label index: the mapping from a data file's
// path (relative to the data directory) to the timestamps flagged as
// anomalous in that file.
//
// Entries keep the order in which they appear in the source document, so a
// run processes files in the same order the index lists them.
package labels

// Entry is one data file and its anomaly timestamps, as written in the index.
type Entry struct {
	Path       string
	Timestamps []string
}

// Index is the loaded label index. It is read-only once built.
type Index struct {
	entries []Entry
	byPath  map[string]int
}

func newIndex() *Index {
	return &Index{byPath: make(map[string]int)}
}

// add appends an entry, reporting false if the path is already present.
func (x *Index) add(path string, timestamps []string) bool {
	if _, dup := x.byPath[path]; dup {
		return false
	}
	if timestamps == nil {
		timestamps = []string{}
	}
	x.byPath[path] = len(x.entries)
	x.entries = append(x.entries, Entry{Path: path, Timestamps: timestamps})
	return true
}

// Len returns the number of files listed.
func (x *Index) Len() int { return len(x.entries) }

// Entries returns the entries in document order. The slice must not be modified.
func (x *Index) Entries() []Entry { return x.entries }

// Lookup returns the anomaly timestamps for path.
func (x *Index) Lookup(path string) ([]string, bool) {
	i, ok := x.byPath[path]
	if !ok {
		return nil, false
	}
	return x.entries[i].Timestamps, true
}

// TotalTimestamps returns the number of anomaly timestamps across all files.
func (x *Index) TotalTimestamps() int {
	n := 0
	for _, e := range x.entries {
		n += len(e.Timestamps)
	}
	return n
}
