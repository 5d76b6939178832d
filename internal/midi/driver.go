package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver
)

// Driver is the slice of a MIDI backend the Manager needs
type Driver interface {
	// InPorts returns the names of the available input ports
	InPorts() []string
	// Listen starts delivering raw messages from the named port
	Listen(port string, recv func([]byte)) (stop func(), err error)
	// Close releases the backend
	Close()
}

// RtMidi is the Driver backed by gomidi's rtmidi driver
type RtMidi struct{}

func (RtMidi) InPorts() []string {
	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

func (RtMidi) Listen(port string, recv func([]byte)) (func(), error) {
	in, err := findInPort(port)
	if err != nil {
		return nil, err
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		recv(msg.Bytes())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start listening on %s: %w", port, err)
	}
	return stop, nil
}

func (RtMidi) Close() {
	midi.CloseDriver()
}

func findInPort(name string) (drivers.In, error) {
	for _, in := range midi.GetInPorts() {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, fmt.Errorf("input port not found: %s", name)
}
