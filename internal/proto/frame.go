package proto

import (
	"bufio"
	"io"
	"strings"
)

// maxFrame bounds the payload of a single <...> frame. Anything longer
// is noise (or a missing '>') and gets discarded up to the next frame.
const maxFrame = 64

// Scanner extracts command frames from a byte stream. Bytes outside
// <...> pairs are ignored, so the protocol survives line noise and
// interleaved logging on a shared serial link.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next returns the contents of the next frame, without the brackets.
// It blocks until a full frame arrives or the stream errors.
func (s *Scanner) Next() (string, error) {
	for {
		if err := s.skipToOpen(); err != nil {
			return "", err
		}

		var sb strings.Builder
		for {
			b, err := s.r.ReadByte()
			if err != nil {
				return "", err
			}
			if b == '>' {
				return sb.String(), nil
			}
			if b == '<' {
				// Unterminated frame; start over from this bracket.
				sb.Reset()
				continue
			}
			if sb.Len() >= maxFrame {
				break // oversized, drop and resync
			}
			sb.WriteByte(b)
		}
	}
}

func (s *Scanner) skipToOpen() error {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return err
		}
		if b == '<' {
			return nil
		}
	}
}

// SplitFrame separates a frame payload into its command letter and
// argument substring. Leading whitespace before the letter is
// tolerated; the argument keeps everything after the letter. Reports
// false for an empty frame.
func SplitFrame(frame string) (byte, string, bool) {
	frame = strings.TrimLeft(frame, " \t")
	if frame == "" {
		return 0, "", false
	}
	return frame[0], frame[1:], true
}
