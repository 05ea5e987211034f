package modem

import (
	"context"

	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
)

// StartUDPService creates the UDP socket bound to the configured port.
//
// Like the other socket commands it completes on the first line of the
// reply, so an ERROR from the module (port already bound) is returned
// rather than retried. The socket number found in the reply is remembered
// for SendDataUDP and CloseConnection. A reply without one leaves the
// previous number, initially 0, in place.
func (s *Shield) StartUDPService(ctx context.Context) (string, error) {
	resp, err := s.exec(ctx, Request{Command: at.SocketOpen(s.Port()), Match: at.MatchAnyLine})
	if err != nil {
		return resp, err
	}

	if id, ok := at.ParseSocketID(resp); ok {
		s.mu.Lock()
		s.socket = id
		s.mu.Unlock()
	}
	s.logger.Info("UDP socket created", zap.Int("socket", s.Socket()))
	return resp, nil
}

// Socket returns the UDP socket number used by the datagram commands.
func (s *Shield) Socket() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.socket
}

// SendDataUDP sends payload as one datagram to the configured IP address and
// port.
//
// The transaction completes on the first line the module sends back, which
// may as well be an error reply.
func (s *Shield) SendDataUDP(ctx context.Context, payload []byte) (string, error) {
	s.mu.RLock()
	cmd := at.SocketSend(s.socket, s.ipAddress, s.port, payload)
	s.mu.RUnlock()

	return s.exec(ctx, Request{Command: cmd, Match: at.MatchAnyLine})
}

// CloseConnection closes the UDP socket. Like SendDataUDP it completes on
// the first line of the reply.
func (s *Shield) CloseConnection(ctx context.Context) (string, error) {
	return s.exec(ctx, Request{Command: at.SocketClose(s.Socket()), Match: at.MatchAnyLine})
}
