package store

import (
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// MaxRecent bounds the recent-entries list.
const MaxRecent = 20

// RecentEntry is a directory the user opened, with the Unix time it was last opened.
type RecentEntry struct {
    Path       string `json:"path"`
    LastOpened int64  `json:"last_opened"`
}

// LoadRecent reads the recent list from path.
// Missing file yields an empty list without error; a malformed file yields an
// empty list and the decode error.
func LoadRecent(path string) ([]RecentEntry, error) {
    b, err := os.ReadFile(path)
    if err != nil {
        if os.IsNotExist(err) {
            return []RecentEntry{}, nil
        }
        return []RecentEntry{}, err
    }
    var arr []RecentEntry
    if err := json.Unmarshal(b, &arr); err != nil {
        return []RecentEntry{}, err
    }
    return normalizeRecent(arr), nil
}

// SaveRecent writes the list as indented JSON, creating parent dirs.
func SaveRecent(path string, items []RecentEntry) error {
    if strings.TrimSpace(path) == "" {
        return errors.New("empty path")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    b, err := json.MarshalIndent(normalizeRecent(items), "", "  ")
    if err != nil {
        return err
    }
    return os.WriteFile(path, b, 0o644)
}

// AddRecent stamps dir with now (inserting it if new), saves, and returns the
// list most-recent-first. A corrupt file is replaced.
func AddRecent(path, dir string, now time.Time) ([]RecentEntry, error) {
    dir = strings.TrimSpace(dir)
    if dir == "" {
        return nil, errors.New("empty directory")
    }
    cur, _ := LoadRecent(path)
    found := false
    for i := range cur {
        if cur[i].Path == dir {
            cur[i].LastOpened = now.Unix()
            found = true
            break
        }
    }
    if !found {
        cur = append(cur, RecentEntry{Path: dir, LastOpened: now.Unix()})
    }
    cur = normalizeRecent(cur)
    if err := SaveRecent(path, cur); err != nil {
        return cur, err
    }
    return cur, nil
}

// RemoveRecent drops dir from the list and saves it. It reports whether dir was present.
func RemoveRecent(path, dir string) (bool, error) {
    cur, err := LoadRecent(path)
    if err != nil {
        return false, err
    }
    next := cur[:0]
    removed := false
    for _, e := range cur {
        if e.Path == dir {
            removed = true
            continue
        }
        next = append(next, e)
    }
    if !removed {
        return false, nil
    }
    return true, SaveRecent(path, next)
}

// normalizeRecent drops blank and duplicate paths (keeping the newest stamp),
// sorts most-recent-first and caps the length.
func normalizeRecent(in []RecentEntry) []RecentEntry {
    best := map[string]RecentEntry{}
    for _, e := range in {
        e.Path = strings.TrimSpace(e.Path)
        if e.Path == "" {
            continue
        }
        if prev, ok := best[e.Path]; !ok || e.LastOpened > prev.LastOpened {
            best[e.Path] = e
        }
    }
    out := make([]RecentEntry, 0, len(best))
    for _, e := range best {
        out = append(out, e)
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].LastOpened != out[j].LastOpened {
            return out[i].LastOpened > out[j].LastOpened
        }
        return out[i].Path < out[j].Path
    })
    if len(out) > MaxRecent {
        out = out[:MaxRecent]
    }
    return out
}
