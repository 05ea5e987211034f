package at_test

import (
	"bufio"
	"strings"
	"testing"

	"i4.energy/across/nbiot/at"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "IMEI query with echo",
			input:    "AT+CGSN=1\r\r\n+CGSN:490154203237518\r\n\r\nOK\r\n",
			expected: []string{"AT+CGSN=1", "", "+CGSN:490154203237518", "", "OK"},
		},
		{
			name:     "Command error",
			input:    "\r\n+CME ERROR: 53\r\n",
			expected: []string{"", "+CME ERROR: 53"},
		},
		{
			name:     "Attach status",
			input:    "\r\n+CGATT:1\r\n\r\nOK\r\n",
			expected: []string{"", "+CGATT:1", "", "OK"},
		},
		{
			name:     "Socket creation",
			input:    "\r\n0\r\n\r\nOK\r\n",
			expected: []string{"", "0", "", "OK"},
		},
		{
			name:     "URC mixed with response",
			input:    "\r\n+CSCON:1\r\n\r\n+CSQ:17,99\r\n\r\nOK\r\n",
			expected: []string{"", "+CSCON:1", "", "+CSQ:17,99", "", "OK"},
		},
		{
			name:     "Lone CR terminates a line",
			input:    "AT+NRB\rREBOOTING\r\n",
			expected: []string{"AT+NRB", "REBOOTING"},
		},
		// EOF scenarios - testing atEOF functionality
		{
			name:     "Incomplete line at EOF",
			input:    "\r\n+CSQ:17,99",
			expected: []string{"", "+CSQ:17,99"},
		},
		{
			name:     "Command without terminator at EOF",
			input:    "AT+CGMR",
			expected: []string{"AT+CGMR"},
		},
		{
			name:     "Trailing CR at EOF",
			input:    "OK\r",
			expected: []string{"OK"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(at.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %q\nGot: %q",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected at.ResponseType
	}{
		// Final responses
		{name: "OK response", input: "OK", expected: at.TypeFinal},
		{name: "ERROR response", input: "ERROR", expected: at.TypeFinal},
		{name: "CME Error", input: "+CME ERROR: 53", expected: at.TypeFinal},

		// URCs
		{name: "Connection status", input: "+CSCON:1", expected: at.TypeURC},
		{name: "Socket data", input: "+NSONMI:0,4", expected: at.TypeURC},
		{name: "Registration status", input: "+CEREG:1", expected: at.TypeURC},
		{name: "Reboot", input: "REBOOTING", expected: at.TypeURC},

		// Data responses
		{name: "Echoed command", input: "AT+CSQ", expected: at.TypeData},
		{name: "Signal quality", input: "+CSQ:17,99", expected: at.TypeData},
		{name: "Attach status", input: "+CGATT:1", expected: at.TypeData},
		{name: "Model", input: "BC95HB-02-STD_850", expected: at.TypeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := at.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v for input %q", tt.expected, result, tt.input)
			}
		})
	}
}

func TestLines(t *testing.T) {
	got := at.Lines("AT+CGMM\r\r\nBC95HB-02-STD_850\r\n\r\nOK\r\n")
	want := []string{"AT+CGMM", "BC95HB-02-STD_850", "OK"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFinalResult(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "\r\n+CSQ:17,99\r\n\r\nOK\r\n", expected: "OK"},
		{input: "\r\n+CME ERROR: 53\r\n", expected: "+CME ERROR: 53"},
		{input: "\r\n+CSQ:17,99\r\n", expected: ""},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		if got := at.FinalResult(tt.input); got != tt.expected {
			t.Errorf("FinalResult(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestMatchMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     at.MatchMode
		response string
		desired  string
		expected bool
	}{
		{name: "substring found", mode: at.MatchSubstring, response: "\r\nOK\r\n", desired: at.TokenOK, expected: true},
		{name: "substring missing terminator", mode: at.MatchSubstring, response: "\r\nOK", desired: at.TokenOK, expected: false},
		{name: "substring split token joined", mode: at.MatchSubstring, response: "O" + "K\r\n", desired: at.TokenOK, expected: true},
		{name: "attach token", mode: at.MatchSubstring, response: "+CGATT:0\r\nOK\r\n", desired: at.TokenAttached, expected: false},
		{name: "any line", mode: at.MatchAnyLine, response: "\r\n", desired: "", expected: true},
		{name: "any line accepts errors", mode: at.MatchAnyLine, response: "ERROR\r\n", desired: at.TokenOK, expected: true},
		{name: "any line needs a line", mode: at.MatchAnyLine, response: "AT+NSOCL=0\r", desired: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Matches(tt.response, tt.desired); got != tt.expected {
				t.Errorf("%s.Matches(%q, %q): expected %v, got %v",
					tt.mode, tt.response, tt.desired, tt.expected, got)
			}
		})
	}
}
