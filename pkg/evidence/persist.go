package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ToJSONL renders the pack's entries as newline-delimited JSON: one compact
// JSON object per line, one line per entry, in append order.
func (p *Pack) ToJSONL() ([]byte, error) {
	p.mu.Lock()
	entries := make([]Entry, len(p.Entries))
	copy(entries, p.Entries)
	p.mu.Unlock()

	var buf []byte
	for i, e := range entries {
		line, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("evidence: marshal entry %s: %w", e.EntryID, err)
		}
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, line...)
	}
	return buf, nil
}

// Save finalizes the pack (stamping the Merkle root) and writes its entries
// to evidence_<session_id>.jsonl under dir, one JSON object per line.
func (p *Pack) Save(dir string) (string, error) {
	p.Finalize()

	path := filepath.Join(dir, fmt.Sprintf("evidence_%s.jsonl", p.SessionID))
	body, err := p.ToJSONL()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("evidence: write %s: %w", path, err)
	}
	return path, nil
}
