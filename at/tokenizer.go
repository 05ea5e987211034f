package at

import (
	"bufio"
	"bytes"
	"strings"
)

// Splitter is used for tokenizing AT command modem responses. It uses
// the signature of bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// It splits the input by CRLF line endings. A lone CR (the terminator the
// module echoes back for a command) is treated as a line ending too, so an
// echoed command and its reply land in separate tokens.
//
// The atEOF parameter indicates whether any more data will be available.
// When true, any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		// CRLF
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + len(CRLF), data[0:i], nil
		}
		// Lone CR followed by more data
		if i+1 < len(data) {
			return i + 1, data[0:i], nil
		}
		// CR at the end of the buffer: wait for a possible LF
		if !atEOF {
			return 0, nil, nil
		}
		return len(data), data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of the modem output
func Classify(line string) ResponseType {
	switch line {
	case OK, ERROR:
		return TypeFinal
	}

	switch {
	case strings.HasPrefix(line, CmeError):
		return TypeFinal
	case strings.HasPrefix(line, UrcConnStatus),
		strings.HasPrefix(line, UrcSocketData),
		strings.HasPrefix(line, UrcRegStatus),
		line == UrcReboot:
		return TypeURC
	default:
		return TypeData
	}
}

// Lines splits an accumulated response into its non-empty lines.
func Lines(response string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(response))
	scanner.Split(Splitter)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FinalResult returns the last final result code in response, or "" when
// the module has not finished answering.
func FinalResult(response string) string {
	var final string
	for _, line := range Lines(response) {
		if Classify(line) == TypeFinal {
			final = line
		}
	}
	return final
}

func containsToken(response, token string) bool {
	return strings.Contains(response, token)
}

func containsLine(response string) bool {
	return strings.Contains(response, CRLF)
}
