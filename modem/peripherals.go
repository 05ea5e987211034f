package modem

import (
	"fmt"

	"i4.energy/across/nbiot/peripheral"
)

func (s *Shield) TurnOnRelay() error {
	return s.setPin(s.board.Relay, true)
}

func (s *Shield) TurnOffRelay() error {
	return s.setPin(s.board.Relay, false)
}

func (s *Shield) TurnOnUserLED() error {
	return s.setPin(s.board.LED, true)
}

func (s *Shield) TurnOffUserLED() error {
	return s.setPin(s.board.LED, false)
}

// ReadUserButton returns the level of the user button line.
func (s *Shield) ReadUserButton() (bool, error) {
	if s.board.Button == nil {
		return false, ErrNoPeripheral
	}
	return s.board.Button.Get()
}

// ReadADC samples one of the four ADC inputs.
func (s *Shield) ReadADC(channel int) (int, error) {
	if s.board.ADC == nil {
		return 0, ErrNoPeripheral
	}
	if channel < 0 || channel >= peripheral.ADCChannels {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return s.board.ADC.ReadChannel(channel)
}

// ReadLightLevel returns the raw ADC sample of the ambient light sensor.
func (s *Shield) ReadLightLevel() (int, error) {
	return s.ReadADC(peripheral.LightChannel)
}

func (s *Shield) ReadTemperature() (float64, error) {
	if s.board.Climate == nil {
		return 0, ErrNoPeripheral
	}
	return s.board.Climate.Temperature()
}

func (s *Shield) ReadHumidity() (float64, error) {
	if s.board.Climate == nil {
		return 0, ErrNoPeripheral
	}
	return s.board.Climate.Humidity()
}

func (s *Shield) ReadAcceleration() (peripheral.Vector, error) {
	if s.board.Accelerometer == nil {
		return peripheral.Vector{}, ErrNoPeripheral
	}
	return s.board.Accelerometer.Acceleration()
}

func (s *Shield) setPin(pin peripheral.OutputPin, high bool) error {
	if pin == nil {
		return ErrNoPeripheral
	}
	return pin.Set(high)
}
