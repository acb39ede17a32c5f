// Package address provides the MAC address type used by the learning switch
package address

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// MACLength is the byte length of a MAC address
	MACLength = 6
)

// ErrInvalidMAC is returned when a string cannot be parsed as a MAC address
var ErrInvalidMAC = errors.New("invalid MAC address")

// MAC represents an Ethernet MAC address.
// It is a comparable value type and can be used directly as a map key.
type MAC [MACLength]byte

// Broadcast is the all-ones broadcast address
var Broadcast = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ParseMAC parses a MAC address from a string.
// Supports formats like: AA:BB:CC:DD:EE:FF, aa-bb-cc-dd-ee-ff or aabbccddeeff
func ParseMAC(s string) (MAC, error) {
	var mac MAC

	raw := s
	switch len(s) {
	case MACLength*3 - 1:
		sep := s[2]
		if sep != ':' && sep != '-' {
			return mac, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
		}
		// 分隔符必须一致且位置正确
		for i := 2; i < len(s); i += 3 {
			if s[i] != sep {
				return mac, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
			}
		}
		raw = strings.ReplaceAll(s, string(sep), "")
	case MACLength * 2:
	default:
		return mac, fmt.Errorf("%w: %q has invalid length", ErrInvalidMAC, s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil || len(b) != MACLength {
		return mac, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}

	copy(mac[:], b)
	return mac, nil
}

// MustParseMAC is like ParseMAC but panics on error
func MustParseMAC(s string) MAC {
	mac, err := ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return mac
}

// String returns the canonical representation of the MAC address (XX:XX:XX:XX:XX:XX)
func (m MAC) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X",
		m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsBroadcast checks if this is the broadcast MAC address
func (m MAC) IsBroadcast() bool {
	return m == Broadcast
}

// IsMulticast checks if the group bit is set
func (m MAC) IsMulticast() bool {
	return (m[0] & 0x01) == 0x01
}

// Compare compares two MAC addresses
func (m MAC) Compare(other MAC) int {
	for i := 0; i < MACLength; i++ {
		if m[i] < other[i] {
			return -1
		}
		if m[i] > other[i] {
			return 1
		}
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler
func (m MAC) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *MAC) UnmarshalText(text []byte) error {
	mac, err := ParseMAC(string(text))
	if err != nil {
		return err
	}
	*m = mac
	return nil
}
