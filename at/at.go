package at

const (
	// Terminal Control
	CR   = "\r"
	CRLF = "\r\n"

	// Response Codes
	OK       = "OK"
	ERROR    = "ERROR"
	CmeError = "+CME ERROR:"

	// Success tokens used by the shield command set
	TokenOK       = OK + CRLF
	TokenAttached = "+CGATT:1" + CRLF
	TokenLine     = CRLF

	// URCs (Unsolicited Result Codes)
	UrcConnStatus = "+CSCON:"
	UrcSocketData = "+NSONMI:"
	UrcRegStatus  = "+CEREG:"
	UrcReboot     = "REBOOTING"
)

type ResponseType int

const (
	TypeFinal ResponseType = iota // OK, ERROR
	TypeURC                       // Asynchronous notifications
	TypeData                      // Intermediate command output (+CSQ: ...)
)

// MatchMode selects how a transaction decides that the module has answered.
type MatchMode int

const (
	// MatchSubstring completes once the desired token appears anywhere in
	// the accumulated response.
	MatchSubstring MatchMode = iota
	// MatchAnyLine completes on the first CRLF pair, whatever the line holds.
	// This is the completion signal of the UDP socket commands. It is weak:
	// an echoed command or an ERROR line satisfies it just as well.
	MatchAnyLine
)

// Matches reports whether response completes a transaction waiting for
// desired under mode m.
func (m MatchMode) Matches(response, desired string) bool {
	switch m {
	case MatchAnyLine:
		return containsLine(response)
	default:
		return containsToken(response, desired)
	}
}

func (m MatchMode) String() string {
	switch m {
	case MatchAnyLine:
		return "any-line"
	default:
		return "substring"
	}
}

// Flag is the TRUE/FALSE token accepted by the NCONFIG family of commands.
type Flag string

const (
	On  Flag = "TRUE"
	Off Flag = "FALSE"
)

// FlagOf converts a bool into its command token.
func FlagOf(enabled bool) Flag {
	if enabled {
		return On
	}
	return Off
}
