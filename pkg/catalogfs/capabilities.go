package catalogfs

// Capabilities records the acceleration backends available on the current
// host, determined once at process startup. The original implementation
// this core was distilled from tracked equivalent information with mutable
// globals (HAS_RUST_ENGINE, MFT_AVAILABLE); here they are fields of a value
// constructed once and passed by reference to anything that needs to branch
// on them, rather than consulted as ambient global state.
type Capabilities struct {
	// MFTAvailable indicates that the current volume (or, at process scope,
	// the current platform) supports raw MFT enumeration via USN_ENUM_DATA.
	// When false, the scanner falls back to a directory walk. The watcher
	// does not consult it and has no polling fallback.
	MFTAvailable bool

	// NativeEngineAvailable indicates that an optional native acceleration
	// backend (e.g. a compiled scanner helper) is present. The core never
	// requires this; it is surface area for callers that want to report
	// degraded-but-functional status.
	NativeEngineAvailable bool
}

// Detect probes the current process environment and returns the
// capabilities available to it. It never fails: an absent capability simply
// results in a false field and a fallback code path elsewhere.
func Detect() Capabilities {
	return Capabilities{
		MFTAvailable:          mftSupported(),
		NativeEngineAvailable: false,
	}
}
