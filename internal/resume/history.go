package resume

import (
	"encoding/json"
	"os"
	"time"
)

// History records candidates scored in previous runs so reruns can skip them.
type History struct {
	Items []*HistoryEntry
}

type HistoryEntry struct {
	ID         string
	Name       string
	Label      string
	Confidence float64
	ScoredAt   time.Time
}

// ToHistory converts the current candidate list into history records.
func (c *Candidates) ToHistory() []*HistoryEntry {
	entries := make([]*HistoryEntry, 0, len(c.Items))
	for _, candidate := range c.Items {
		entry := &HistoryEntry{
			ID:       candidate.ID,
			Name:     candidate.Name(),
			ScoredAt: time.Now().UTC(),
		}
		if candidate.Score != nil {
			entry.Label = candidate.Score.Label
			entry.Confidence = candidate.Score.Confidence
		}
		entries = append(entries, entry)
	}
	return entries
}

// GetHistoryFromFile loads the history file. Missing or empty files yield an
// empty history.
func GetHistoryFromFile(path string) (*History, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &History{}, nil
	}

	var history History
	if err := json.NewDecoder(file).Decode(&history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (h *History) Append(entries ...*HistoryEntry) {
	h.Items = append(h.Items, entries...)
}

func (h *History) IDs() []string {
	ids := make([]string, 0, len(h.Items))
	for _, entry := range h.Items {
		ids = append(ids, entry.ID)
	}
	return ids
}

func (h *History) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}
