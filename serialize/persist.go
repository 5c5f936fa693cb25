package serialize

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// VersionInfo is stamped into a tree's root System node before it is
// written to disk (SPEC_FULL.md §6.5: "version info... is stamped into the
// root System before writing").
type VersionInfo struct {
	Release        string
	Tool           string
	GenerationDate time.Time
	FormatVersion  string // "major.minor", e.g. "1.0"
}

// StampVersion attaches release/tool/generationDate/formatVersion as string
// properties on root, overwriting any prior stamp.
func StampVersion(tree *hifast.Tree, root hifast.Handle, v VersionInfo) {
	set := func(name, value string) {
		h := tree.NewNode(hifast.KindStringValue)
		n := tree.Get(h)
		n.Value.StringLit = value
		tree.Put(h, n)
		tree.SetProperty(root, name, h)
	}
	set("release", v.Release)
	set("tool", v.Tool)
	set("generationDate", v.GenerationDate.UTC().Format(time.RFC3339))
	set("formatVersion", v.FormatVersion)
}

var uniqueFileCounter uint64

// WriteUniqueFile writes data under dir (creating it if absent) with a
// filename of the form "<base>_<unixNano>_<id><ext>", where id is a
// process-wide monotonically increasing counter — SPEC_FULL.md §6.5's
// "each file gets a timestamp and monotonically increasing id suffix". ext
// should include its leading dot ("" for none); callers pass ".hif" or
// ".hif.xml" per §6.1/§6.2. Returns the full path written.
func WriteUniqueFile(dir, base string, data []byte, ext string) (string, error) {
	if dir == "" {
		dir = "hif-debug"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("serialize: create debug dir: %w", err)
	}
	id := atomic.AddUint64(&uniqueFileCounter, 1)
	name := fmt.Sprintf("%s_%d_%d%s", base, time.Now().UnixNano(), id, ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("serialize: write %s: %w", path, err)
	}
	return path, nil
}
