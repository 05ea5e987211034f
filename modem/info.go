package modem

import (
	"context"

	"i4.energy/across/nbiot/at"
)

// IMEI queries the module's IMEI. The raw reply is returned; use
// at.ParseIMEI to extract the number.
func (s *Shield) IMEI(ctx context.Context) (string, error) {
	return s.expectOK(ctx, at.CmdIMEI)
}

// FirmwareInfo queries the firmware revision.
func (s *Shield) FirmwareInfo(ctx context.Context) (string, error) {
	return s.expectOK(ctx, at.CmdFirmware)
}

// HardwareInfo queries the module model.
func (s *Shield) HardwareInfo(ctx context.Context) (string, error) {
	return s.expectOK(ctx, at.CmdHardware)
}

// SignalQuality queries rssi and ber ("+CSQ:<rssi>,<ber>").
func (s *Shield) SignalQuality(ctx context.Context) (string, error) {
	return s.expectOK(ctx, at.CmdSignalQuality)
}
