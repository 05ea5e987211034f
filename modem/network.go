package modem

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
)

// SetAutoConnect enables or disables automatic network attach at boot.
func (s *Shield) SetAutoConnect(ctx context.Context, flag at.Flag) (string, error) {
	return s.expectOK(ctx, at.NConfig(at.ConfigAutoConnect, flag))
}

// SetScrambling switches the CR_0354_0338 scrambling feature.
func (s *Shield) SetScrambling(ctx context.Context, flag at.Flag) (string, error) {
	return s.expectOK(ctx, at.NConfig(at.ConfigScrambling, flag))
}

// AttachNetwork detaches from the network, attaches again and waits until
// the module reports the attached state. It returns the reply of the final
// status query.
//
// The three transactions are not atomic. If the sequence stops part way
// (cancelled context, retry ceiling) the module is left in whatever state
// the last completed step put it in.
func (s *Shield) AttachNetwork(ctx context.Context) (string, error) {
	s.logger.Info("Attaching to network")

	steps := []Request{
		{Command: at.CmdDetach, Desired: at.TokenOK, Timeout: s.attachTimeout},
		{Command: at.CmdAttach, Desired: at.TokenOK, Timeout: s.attachTimeout},
		{Command: at.CmdAttachStatus, Desired: at.TokenAttached, Timeout: s.attachTimeout},
	}

	var resp string
	for i, step := range steps {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return resp, err
			}
		}
		var err error
		resp, err = s.exec(ctx, step)
		if err != nil {
			s.logger.Error("Network attach interrupted",
				zap.String("step", step.Command),
				zap.Error(err),
			)
			return resp, fmt.Errorf("attach step %s: %w", step.Command, err)
		}
	}

	s.logger.Info("Attached to network")
	return resp, nil
}

// ConnectToOperator attaches to the operator's base station without a prior
// detach, waits for the attached state and then queries the signal quality,
// whose reply is returned.
func (s *Shield) ConnectToOperator(ctx context.Context) (string, error) {
	s.logger.Info("Trying to connect base station of operator")

	if _, err := s.exec(ctx, Request{Command: at.CmdAttach, Desired: at.TokenOK, Timeout: s.attachTimeout}); err != nil {
		return "", err
	}
	if err := s.pause(ctx); err != nil {
		return "", err
	}
	if _, err := s.exec(ctx, Request{Command: at.CmdAttachStatus, Desired: at.TokenAttached, Timeout: s.attachTimeout}); err != nil {
		return "", err
	}
	return s.SignalQuality(ctx)
}
