package parser

import "strings"

// segState tracks where the segmenter is inside multi-line constructs.
type segState int

const (
	stateNormal segState = iota
	stateInFence
	stateInMath
)

const (
	fenceMarker = "```"
	mathMarker  = "$$"
)

// Segment splits raw text into block segments, one per future top-level node.
// Fenced code and $$ math accumulate across blank lines; everywhere else a
// blank line terminates the current segment. An unterminated fence or math
// block at end of input is still emitted as a single segment.
func Segment(text string) []string {
	var segments []string
	var current strings.Builder
	state := stateNormal

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		switch state {
		case stateInFence:
			current.WriteString(line)
			current.WriteString("\n")
			if strings.HasPrefix(strings.TrimSpace(line), fenceMarker) {
				flush()
				state = stateNormal
			}

		case stateInMath:
			current.WriteString(line)
			current.WriteString("\n")
			if strings.Contains(line, mathMarker) {
				flush()
				state = stateNormal
			}

		default:
			if strings.HasPrefix(strings.TrimSpace(line), fenceMarker) {
				flush()
				state = stateInFence
				current.WriteString(line)
				current.WriteString("\n")
				continue
			}
			if strings.Contains(line, mathMarker) {
				flush()
				state = stateInMath
				current.WriteString(line)
				current.WriteString("\n")
				continue
			}
			if strings.TrimSpace(line) == "" {
				flush()
				continue
			}
			current.WriteString(line)
			current.WriteString("\n")
		}
	}

	// End of input closes whatever is open, terminated or not.
	flush()

	return segments
}
