// Package fingerprint computes and encodes the two content fingerprints a
// container reconciler compares on every run: a recursive tree of inject
// source file metadata, and a sorted list of secret update timestamps.
// Both encode as base64 URL-safe-no-pad of a message-packed value, so they
// round-trip cleanly through a container label.
package fingerprint

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// InjectFileNode is a leaf fingerprint: a file's modification time (in
// milliseconds since the Unix epoch) and length in bytes.
type InjectFileNode struct {
	MTimeMillis int64  `msgpack:"m"`
	Len         uint64 `msgpack:"l"`
}

// InjectNode is either a file leaf or a directory of named children. Only
// one of Dir or File is ever set; directory child keys are the raw bytes
// of a path component, never coerced to a particular text encoding, so
// non-UTF-8 filenames round-trip intact.
type InjectNode struct {
	Dir  map[string]InjectNode `msgpack:"d,omitempty"`
	File *InjectFileNode       `msgpack:"f,omitempty"`
}

// IsDir reports whether the node represents a directory.
func (n InjectNode) IsDir() bool {
	return n.Dir != nil
}

// InjectTree is the fingerprint stored in a container's inject-fingerprint
// label: one InjectNode per declared inject, keyed by its container
// destination path ("at").
type InjectTree map[string]InjectNode

// ComputeNode walks the filesystem at path and builds its InjectNode,
// comparing against an optional previously-recorded node at every level.
// The returned bool is the "bad" bit: true if any node in the subtree
// differs in kind, mtime, or length from compare, or if compare is nil.
func ComputeNode(path string, compare *InjectNode) (InjectNode, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return InjectNode{}, true, err
	}

	if info.IsDir() {
		bad := compare == nil || !compare.IsDir()

		entries, err := os.ReadDir(path)
		if err != nil {
			return InjectNode{}, true, err
		}

		children := make(map[string]InjectNode, len(entries))
		for _, entry := range entries {
			var childCompare *InjectNode
			if !bad && compare != nil {
				if existing, ok := compare.Dir[entry.Name()]; ok {
					childCompare = &existing
				}
			}

			child, childBad, err := ComputeNode(filepath.Join(path, entry.Name()), childCompare)
			if err != nil {
				return InjectNode{}, true, err
			}
			bad = bad || childBad
			children[entry.Name()] = child
		}

		return InjectNode{Dir: children}, bad, nil
	}

	mtimeMillis := info.ModTime().UnixNano() / int64(time.Millisecond)
	length := uint64(info.Size())

	bad := true
	if compare != nil && compare.File != nil {
		bad = compare.File.MTimeMillis != mtimeMillis || compare.File.Len != length
	}

	return InjectNode{File: &InjectFileNode{MTimeMillis: mtimeMillis, Len: length}}, bad, nil
}

// EncodeInjectTree serializes a tree as base64 URL-safe-no-pad of its
// message-packed form, suitable for storage in a container label.
func EncodeInjectTree(tree InjectTree) (string, error) {
	packed, err := msgpack.Marshal(tree)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// DecodeInjectTree decodes a label value produced by EncodeInjectTree. Any
// failure — malformed base64, malformed msgpack — is swallowed and
// reported as ok=false: callers treat this identically to "no fingerprint
// present," forcing recreation rather than propagating a decode error.
func DecodeInjectTree(encoded string) (InjectTree, bool) {
	packed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}

	var tree InjectTree
	if err := msgpack.Unmarshal(packed, &tree); err != nil {
		return nil, false
	}

	return tree, true
}
