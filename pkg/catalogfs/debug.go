package catalogfs

import "os"

// DebugEnabled controls whether or not verbose debug logging is enabled. It
// is set automatically based on the CATALOGFS_DEBUG environment variable.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("CATALOGFS_DEBUG") == "1"
}
