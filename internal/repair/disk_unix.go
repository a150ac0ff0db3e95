//go:build unix

package repair

import "golang.org/x/sys/unix"

// freeDiskSpace returns the usable bytes on the volume holding dir.
func freeDiskSpace(dir string) (uint64, bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, false
	}
	return uint64(st.Bavail) * uint64(st.Bsize), true
}
