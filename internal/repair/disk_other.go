//go:build !unix

package repair

// freeDiskSpace is unavailable on this platform; the preflight is skipped.
func freeDiskSpace(string) (uint64, bool) {
	return 0, false
}
