package main

import (
	"fmt"
	"image"
	"io"

	"github.com/gliderlabs/ssh"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-stb/character"
	"badc0de.net/pkg/go-stb/editor"
	"badc0de.net/pkg/go-stb/imageprint"
	"badc0de.net/pkg/go-stb/palette"
	"badc0de.net/pkg/go-stb/player"
	"badc0de.net/pkg/go-stb/store"
)

const (
	enableAltScreen  = "\x1b[?1049h"
	disableAltScreen = "\x1b[?1049l"
	clearScreen      = "\x1b[2J"
	cursorHome       = "\x1b[H"
	hideCursor       = "\x1b[?25l"
	showCursor       = "\x1b[?25h"
	clearLine        = "\x1b[K"
)

// viewer is what one client is looking at.
type viewer struct {
	doc   *character.Document
	anim  int
	swap  int
	boxes bool
}

// newViewer opens the character named by args[0], or the most recently
// stored one, at the animation named by args[1], or the first one with
// frames.
func newViewer(st store.Store, args []string) (*viewer, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		idx, err := st.Index()
		if err != nil {
			return nil, err
		}
		names := store.Names(idx)
		if len(names) == 0 {
			return nil, errors.New("no characters stored")
		}
		name = names[0]
	}

	s := editor.NewSession()
	if err := s.Open(st, name); err != nil {
		return nil, err
	}
	v := &viewer{doc: s.Document(), anim: -1}
	for i, a := range v.doc.AllAnimations() {
		if len(args) > 1 && a.Name == args[1] {
			v.anim = i
			break
		}
		if len(args) < 2 && v.anim < 0 && len(a.Frames) > 0 {
			v.anim = i
		}
	}
	if v.anim < 0 {
		if len(args) > 1 {
			return nil, errors.Wrapf(character.ErrNotFound, "animation %q", args[1])
		}
		v.anim = 0
	}
	return v, nil
}

func (v *viewer) current() *character.Animation {
	return v.doc.AllAnimations()[v.anim]
}

func (v *viewer) apply(a action) {
	n := len(v.doc.AllAnimations())
	switch a {
	case actionNextAnimation:
		v.anim = (v.anim + 1) % n
	case actionPrevAnimation:
		v.anim = (v.anim + n - 1) % n
	case actionNextSwap:
		if swaps := v.doc.ColorSwaps.Len(); swaps > 0 {
			v.swap = (v.swap + 1) % swaps
		}
	case actionToggleBoxes:
		v.boxes = !v.boxes
	}
}

func (v *viewer) options() (player.Options, error) {
	slots, err := palette.Resolve(&v.doc.ColorSwaps, v.swap)
	if err != nil {
		return player.Options{}, err
	}
	return player.Options{
		Zoom:     *zoom,
		Palettes: slots,
		Boxes:    v.boxes,
	}, nil
}

// draw writes the frame, or only the status lines when img is nil.
func (v *viewer) draw(w io.Writer, img image.Image, pos int, win ssh.Window, status string) {
	io.WriteString(w, cursorHome)
	if img != nil && win.Height > 2 {
		// Half blocks are one pixel wide and two pixels tall, while Fit
		// assumes two cells per pixel horizontally.
		size := imageprint.TermSize{WSCol: 2 * uint(win.Width), WSRow: 2 * uint(win.Height-2)}
		if err := imageprint.FprintHalfBlocks(w, imageprint.Fit(img, size, false)); err != nil {
			glog.V(2).Infof("stbssh: drawing: %v", err)
			return
		}
	}
	a := v.current()
	fmt.Fprintf(w, "\x1b[0m%s: %s frame %d/%d swap %d boxes %t %s%s\r\n", v.doc.Name, a.Name, pos+1, len(a.Frames), v.swap, v.boxes, status, clearLine)
	io.WriteString(w, "n/p animation  s swap  b boxes  q quit"+clearLine)
}

func handleSession(sess ssh.Session, st store.Store) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	v, err := newViewer(st, sess.Command())
	if err != nil {
		fmt.Fprintf(sess, "Error: %v\r\n", err)
		return
	}
	glog.Infof("stbssh: %s@%s watching %q", sess.User(), sess.RemoteAddr(), v.doc.Name)
	defer glog.Infof("stbssh: %s@%s left", sess.User(), sess.RemoteAddr())

	win := ptyReq.Window

	io.WriteString(sess, enableAltScreen+hideCursor+clearScreen)
	defer io.WriteString(sess, showCursor+disableAltScreen)

	latest := player.NewLatest()
	p := player.New(latest)
	defer p.Stop()

	restart := func() {
		io.WriteString(sess, clearScreen)
		opts, err := v.options()
		if err != nil {
			p.Stop()
			v.draw(sess, nil, -1, win, err.Error())
			return
		}
		p.Start(&v.doc.Tileset, v.current(), opts)
		v.draw(sess, nil, -1, win, "")
	}
	restart()

	done := make(chan struct{})
	defer close(done)
	keys := make(chan action)
	go func() {
		defer close(keys)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, a := range parseKeys(buf[:n]) {
				select {
				case keys <- a:
				case <-done:
					return
				}
			}
		}
	}()

	for {
		select {
		case <-sess.Context().Done():
			return
		case a, ok := <-keys:
			if !ok || a == actionQuit {
				return
			}
			v.apply(a)
			restart()
		case w, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			win = w
			io.WriteString(sess, clearScreen)
		case f := <-latest.C():
			v.draw(sess, f.Image, f.Position, win, "")
		}
	}
}
