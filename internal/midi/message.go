package midi

import "fmt"

// Kind tells connection changes apart from device traffic
type Kind uint8

const (
	KindData Kind = iota
	KindConnected
	KindDisconnected
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindConnected:
		return "connected"
	case KindDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message is one item from the transport. Channel, ID and Value are only
// meaningful for KindData.
type Message struct {
	Kind    Kind
	Port    string
	Channel uint8 // Raw status byte; 176 is a control change on channel 1
	ID      uint8
	Value   uint8
}

const statusSysEx = 0xF0

// Decode turns raw MIDI bytes into a data Message. Messages shorter than
// three bytes and system exclusive dumps are dropped. Data bytes are masked
// to 0-127.
func Decode(b []byte) (Message, bool) {
	if len(b) < 3 || b[0] == statusSysEx {
		return Message{}, false
	}
	return Message{
		Kind:    KindData,
		Channel: b[0],
		ID:      b[1] & 0x7F,
		Value:   b[2] & 0x7F,
	}, true
}
