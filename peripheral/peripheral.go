// Package peripheral declares the board collaborators of the NB-IoT shield.
//
// Everything here is a one-shot I/O call with no protocol or retry logic of
// its own: a digital line is set or read, an ADC channel or a sensor is
// sampled. Implementations live outside this module (GPIO, I2C drivers) and
// are handed to the shield through a Board.
package peripheral

//go:generate go tool mockgen -source=peripheral.go -destination=mock_peripheral.go -package=peripheral

// ADCChannels is the number of single-ended inputs of the on-board ADC.
const ADCChannels = 4

// LightChannel is the ADC input wired to the ambient light sensor.
const LightChannel = 0

// OutputPin is a digital output line.
type OutputPin interface {
	Set(high bool) error
}

// InputPin is a digital input line.
type InputPin interface {
	Get() (bool, error)
}

// ADC samples the single-ended inputs of the analog converter.
type ADC interface {
	ReadChannel(channel int) (int, error)
}

// Climate is the temperature and humidity sensor.
type Climate interface {
	Temperature() (float64, error)
	Humidity() (float64, error)
}

// Accelerometer is the three-axis accelerometer.
type Accelerometer interface {
	Acceleration() (Vector, error)
}

// Vector is one accelerometer sample, in g.
type Vector struct {
	X, Y, Z float64
}

// Board bundles the collaborators of one shield. Any of them may be nil when
// the hardware is absent.
type Board struct {
	// Power drives the enable line of the radio module.
	Power OutputPin
	Relay OutputPin
	LED   OutputPin

	Button InputPin

	ADC           ADC
	Climate       Climate
	Accelerometer Accelerometer
}
