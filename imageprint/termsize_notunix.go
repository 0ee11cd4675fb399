//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)

package imageprint

// GetTermSize reports the size of the terminal attached to stdin.
func GetTermSize() (TermSize, error) {
	return stdinTermSize()
}
