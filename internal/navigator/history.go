package navigator

// MemoryHistory is an in-memory History starting at a single entry.
type MemoryHistory struct {
	entries []string
}

var _ History = (*MemoryHistory)(nil)

// NewMemoryHistory creates a history whose only entry is start.
func NewMemoryHistory(start string) *MemoryHistory {
	if start == "" {
		start = RootPath
	}
	return &MemoryHistory{entries: []string{start}}
}

// Push implements History.
func (h *MemoryHistory) Push(path string) {
	h.entries = append(h.entries, path)
}

// Back implements History.
func (h *MemoryHistory) Back() bool {
	if len(h.entries) < 2 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Path implements History.
func (h *MemoryHistory) Path() string {
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	return len(h.entries)
}
