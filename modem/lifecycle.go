package modem

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"i4.energy/across/nbiot/at"
)

// SaveConfigurations stores the configuration of the current session in the
// module's non-volatile memory.
func (s *Shield) SaveConfigurations(ctx context.Context) (string, error) {
	return s.expectOK(ctx, at.CmdSave)
}

// ResetModule saves the configuration and reboots the module. The reboot is
// only issued once the save has been acknowledged.
func (s *Shield) ResetModule(ctx context.Context) (string, error) {
	if _, err := s.SaveConfigurations(ctx); err != nil {
		return "", fmt.Errorf("save configurations: %w", err)
	}
	if err := s.pause(ctx); err != nil {
		return "", err
	}

	s.logger.Info("Rebooting module")
	return s.exec(ctx, Request{Command: at.CmdReboot, Desired: at.TokenOK, Timeout: s.attachTimeout})
}

// Enable powers the radio module up.
func (s *Shield) Enable() error {
	if err := s.setPin(s.board.Power, true); err != nil {
		return fmt.Errorf("enable module: %w", err)
	}
	s.logger.Info("Module enabled")
	return nil
}

// Disable powers the radio module down.
func (s *Shield) Disable() error {
	if err := s.setPin(s.board.Power, false); err != nil {
		return fmt.Errorf("disable module: %w", err)
	}
	s.logger.Info("Module disabled")
	return nil
}

// PowerCycle saves the configuration, then switches the module off and on
// again through its enable line.
func (s *Shield) PowerCycle(ctx context.Context) error {
	if s.board.Power == nil {
		return fmt.Errorf("power cycle: %w", ErrNoPeripheral)
	}
	if _, err := s.SaveConfigurations(ctx); err != nil {
		return fmt.Errorf("save configurations: %w", err)
	}
	if err := s.pause(ctx); err != nil {
		return err
	}
	// transactions wait until the module is powered again
	return s.engine.hold(func() error {
		if err := s.Disable(); err != nil {
			return err
		}
		// the module is gone, stale bytes on the link are meaningless
		if err := s.link.Close(); err != nil {
			s.logger.Warn("Failed to close serial link before power up", zap.Error(err))
		}
		if err := s.pause(ctx); err != nil {
			return err
		}
		return s.Enable()
	})
}
