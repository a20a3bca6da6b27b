package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

func mkSessionDir(outputsRoot string, started time.Time, id string) (string, error) {
	name := "session_" + started.Format("20060102-150405")
	if len(id) >= 8 {
		name += "_" + id[:8]
	}
	dir := filepath.Join(outputsRoot, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// persist writes the bundle to <outputsRoot>/session_<ts>_<id>/session.json.
func persist(outputsRoot string, b SessionBundle) (string, error) {
	dir, err := mkSessionDir(outputsRoot, b.StartedAt, b.SessionID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "session.json")
	if err := writeJSON(path, b); err != nil {
		return "", err
	}
	return path, nil
}
