package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxLineLen is the protocol limit for a line, terminator included
	maxLineLen = 512

	// ":nick!user@host PRIVMSG target :message\r\n": three spaces, two
	// colons and the terminator
	punctuationLen = 3 + 2 + len("\r\n")
)

// lineBudget is the number of text bytes that fit in one PRIVMSG to target
// once our prefix and the rest of the line are accounted for.
func lineBudget(prefixLen int, command, target string) int {
	return maxLineLen - (prefixLen + len(command) + len(target) + punctuationLen)
}

// wrapMsg splits msg into lines of at most limit bytes and passes each one,
// trimmed, to f. Lines break at whitespace where possible; a run of text with
// no whitespace that is longer than limit is cut at limit bytes.
func wrapMsg(msg string, limit int, f func(line string) error) error {
	if limit < 1 {
		return ErrLineBudget
	}

	if len(msg) <= limit {
		return f(strings.TrimSpace(msg))
	}

	next := nextSpace(msg, 0)
	start := 0
	for {
		start = len(msg) - len(strings.TrimLeftFunc(msg[start:], unicode.IsSpace))
		if start >= len(msg) {
			return nil
		}
		for next >= 0 && next < start {
			next = nextSpace(msg, next+1)
		}

		var end int
		if len(msg)-start <= limit {
			end = len(msg)
		} else {
			end = start
			for next >= 0 && next-start <= limit {
				end = next
				next = nextSpace(msg, next+1)
			}
			if end <= start {
				end = forcedSplit(msg, start, limit)
			}
		}

		if err := f(strings.TrimSpace(msg[start:end])); err != nil {
			return err
		}
		start = end
	}
}

// nextSpace returns the byte index of the first whitespace character at or
// after from, or -1.
func nextSpace(msg string, from int) int {
	if from >= len(msg) {
		return -1
	}
	i := strings.IndexFunc(msg[from:], unicode.IsSpace)
	if i < 0 {
		return -1
	}
	return from + i
}

// forcedSplit picks the end of a line that has to be cut mid-token. It backs
// off to the start of a UTF-8 sequence unless that would leave the line empty.
func forcedSplit(msg string, start, limit int) int {
	end := start + limit
	for cut := end; cut > start; cut-- {
		if utf8.RuneStart(msg[cut]) {
			return cut
		}
	}
	return end
}
