package modem_test

import (
	"go.uber.org/mock/gomock"

	"i4.energy/across/nbiot/modem"
)

// MockSequenceBuilder records the port calls of consecutive transactions
// that are answered on their first poll.
type MockSequenceBuilder struct {
	port  *modem.MockPort
	calls []any
}

func NewMockSequence(port *modem.MockPort) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		port:  port,
		calls: []any{},
	}
}

// Exchange expects cmd to be written and answers it with reply.
func (b *MockSequenceBuilder) Exchange(cmd, reply string) *MockSequenceBuilder {
	frame := []byte(cmd + "\r")
	b.calls = append(b.calls,
		b.port.EXPECT().ResetInputBuffer().Return(nil),
		b.port.EXPECT().Write(frame).Return(len(frame), nil),
		b.port.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, reply), nil
		}),
		b.port.EXPECT().Read(gomock.Any()).Return(0, nil),
	)
	return b
}

func (b *MockSequenceBuilder) IMEI() *MockSequenceBuilder {
	return b.Exchange("AT+CGSN=1", "+CGSN:490154203237518\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Save() *MockSequenceBuilder {
	return b.Exchange("AT&W", "OK\r\n")
}

func (b *MockSequenceBuilder) Reboot() *MockSequenceBuilder {
	return b.Exchange("AT+NRB", "REBOOTING\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Detach() *MockSequenceBuilder {
	return b.Exchange("AT+CGATT=0", "OK\r\n")
}

func (b *MockSequenceBuilder) Attach() *MockSequenceBuilder {
	return b.Exchange("AT+CGATT=1", "OK\r\n")
}

func (b *MockSequenceBuilder) Attached() *MockSequenceBuilder {
	return b.Exchange("AT+CGATT?", "+CGATT:1\r\nOK\r\n")
}

func (b *MockSequenceBuilder) SignalQuality() *MockSequenceBuilder {
	return b.Exchange("AT+CSQ", "+CSQ:22,99\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
