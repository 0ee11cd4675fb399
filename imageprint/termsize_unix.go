//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package imageprint

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

var kittySizeReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

// GetTermSize reports the size of the controlling terminal.
func GetTermSize() (TermSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err != nil {
		return stdinTermSize()
	}
	defer f.Close()

	// https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
	sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return stdinTermSize()
	}
	if sz.Xpixel == 0 && sz.Ypixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
		if w, h, ok := kittyPixelSize(f); ok {
			sz.Xpixel, sz.Ypixel = w, h
		}
	}
	return TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}, nil
}

// kittyPixelSize asks the terminal for its size in pixels with CSI 14 t.
// The reply is <ESC>[4;<height>;<width>t.
func kittyPixelSize(f *os.File) (w, h uint16, ok bool) {
	state, err := terminal.MakeRaw(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer terminal.Restore(int(f.Fd()), state)

	fmt.Printf("\033[14t")
	b := make([]byte, 1)
	if _, err := os.Stdin.Read(b); err != nil || b[0] != 033 {
		return 0, 0, false
	}
	// TODO: bound the read with a timeout; a terminal that never answers blocks here.
	s, err := bufio.NewReader(os.Stdin).ReadString('t')
	if err != nil {
		return 0, 0, false
	}
	m := kittySizeReply.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, 0, false
	}
	height, errH := strconv.Atoi(m[1])
	width, errW := strconv.Atoi(m[2])
	if errH != nil || errW != nil {
		return 0, 0, false
	}
	return uint16(width), uint16(height), true
}
