package main

import (
	"unicode/utf8"
)

type action int

const (
	actionQuit action = iota
	actionNextAnimation
	actionPrevAnimation
	actionNextSwap
	actionToggleBoxes
)

// parseKeys converts raw terminal input into viewer actions.
func parseKeys(data []byte) []action {
	var actions []action
	i := 0
	for i < len(data) {
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'C', 'B':
				actions = append(actions, actionNextAnimation)
			case 'D', 'A':
				actions = append(actions, actionPrevAnimation)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'n', 'N', ' ':
			actions = append(actions, actionNextAnimation)
		case 'p', 'P':
			actions = append(actions, actionPrevAnimation)
		case 's', 'S':
			actions = append(actions, actionNextSwap)
		case 'b', 'B':
			actions = append(actions, actionToggleBoxes)
		case 'q', 'Q', 3: // 3 is Ctrl-C
			actions = append(actions, actionQuit)
		}
		i += size
	}
	return actions
}
