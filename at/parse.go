package at

import (
	"strconv"
	"strings"
)

// ParseIMEI extracts the IMEI from an AT+CGSN=1 reply ("+CGSN:<imei>").
// A bare digit line is accepted as well for modules that omit the prefix.
func ParseIMEI(response string) (string, bool) {
	for _, line := range Lines(response) {
		if v, ok := strings.CutPrefix(line, "+CGSN:"); ok {
			return strings.TrimSpace(v), true
		}
	}
	for _, line := range Lines(response) {
		if isDigits(line) {
			return line, true
		}
	}
	return "", false
}

// ParseSignalQuality extracts rssi and ber from a "+CSQ:<rssi>,<ber>" line.
func ParseSignalQuality(response string) (rssi, ber int, ok bool) {
	for _, line := range Lines(response) {
		v, found := strings.CutPrefix(line, "+CSQ:")
		if !found {
			continue
		}
		parts := strings.Split(strings.TrimSpace(v), ",")
		if len(parts) != 2 {
			return 0, 0, false
		}
		r, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return r, b, true
	}
	return 0, 0, false
}

// ParseSocketID extracts the socket number the module assigned in its
// reply to AT+NSOCR: the first line made of digits only.
func ParseSocketID(response string) (int, bool) {
	for _, line := range Lines(response) {
		if !isDigits(line) {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
