package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// OpenSerial opens a serial device with 8 data bits, no parity and one stop
// bit. Reads block without timeout.
func OpenSerial(device string, baud int) (Transport, error) {
	if baud <= 0 {
		return nil, &OpenError{Device: device, Baud: baud, Err: fmt.Errorf("invalid baud rate")}
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, &OpenError{Device: device, Baud: baud, Err: err}
	}
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		_ = port.Close()
		return nil, &OpenError{Device: device, Baud: baud, Err: err}
	}
	return NewStream(device, port), nil
}

// Ports lists the serial devices present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
