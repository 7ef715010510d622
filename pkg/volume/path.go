package volume

import (
	"strings"

	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/record"
)

// buildTree resolves a flat list of MftRawRecord (directories and files,
// unordered) into full paths, via a breadth-first traversal from the
// volume root (FRN 5). A naive recursive resolver would blow the stack on
// deep volumes, so this uses an explicit FIFO queue, per the "Recursive
// path construction" design note in spec.md §9.
//
// root is the drive root path, e.g. "D:\". Entries whose directory
// ancestry fails ShouldSkipDir/ShouldSkipPath are dropped along with their
// entire subtree, without ever visiting their children.
func buildTree(root string, raws []record.MftRawRecord, prefs ScanPreferences) []*record.FileRecord {
	dirsByParent := make(map[uint64][]record.MftRawRecord)
	filesByParent := make(map[uint64][]record.MftRawRecord)
	for _, r := range raws {
		if filter.ShouldSkipName(r.Name) {
			continue
		}
		parent := record.FrnMask(r.ParentRef)
		if r.IsDir {
			dirsByParent[parent] = append(dirsByParent[parent], r)
		} else {
			filesByParent[parent] = append(filesByParent[parent], r)
		}
	}

	type queued struct {
		frn  uint64
		path string
	}

	var results []*record.FileRecord
	dirPaths := map[uint64]string{record.RootFileRef: strings.TrimSuffix(root, `\`)}

	queue := []queued{{frn: record.RootFileRef, path: dirPaths[record.RootFileRef]}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range dirsByParent[current.frn] {
			childFrn := record.FrnMask(child.FileRef)
			childPath := current.path + `\` + child.Name
			if filter.ShouldSkipDir(child.Name, childPath, prefs.AllowList) {
				continue
			}
			dirPaths[childFrn] = childPath
			if childFrn != record.RootFileRef {
				results = append(results, record.New(child.Name, childPath, current.path, 0, 0, true))
			}
			queue = append(queue, queued{frn: childFrn, path: childPath})
		}

		for _, file := range filesByParent[current.frn] {
			fullPath := current.path + `\` + file.Name
			if filterRecord(file.Name, fullPath, false, prefs) {
				continue
			}
			results = append(results, record.New(file.Name, fullPath, current.path, 0, 0, false))
		}
	}

	return results
}
