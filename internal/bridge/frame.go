package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame layout: START | length (uint16 BE) | payload | CRC-16-CCITT (uint16 BE)
const (
	StartByte = 0x7E

	// MaxPayloadSize leaves room for a TRANSMIT of config.MaxCapacity pulses.
	MaxPayloadSize = 5*4096 + 64

	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

var (
	ErrFrameTooLarge = errors.New("frame too large")
	ErrFrameCRC      = errors.New("frame CRC mismatch")
)

// CalculateCRC computes the CRC-16-CCITT checksum of data.
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// WriteFrame writes payload to w as a single frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	frame := make([]byte, 0, len(payload)+5)
	frame = append(frame, StartByte)
	frame = binary.BigEndian.AppendUint16(frame, uint16(len(payload)))
	frame = append(frame, payload...)
	frame = binary.BigEndian.AppendUint16(frame, CalculateCRC(payload))
	_, err := w.Write(frame)
	return err
}

// ReadFrame reads the next frame from r and returns its payload. Bytes
// before a START byte are skipped.
func ReadFrame(r io.Reader) ([]byte, error) {
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		if b[0] == StartByte {
			break
		}
	}

	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	length := int(binary.BigEndian.Uint16(hdr[:]))
	if length > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	buf := make([]byte, length+2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	payload := buf[:length]
	received := binary.BigEndian.Uint16(buf[length:])
	if calculated := CalculateCRC(payload); received != calculated {
		return nil, fmt.Errorf("%w: received 0x%04X, calculated 0x%04X", ErrFrameCRC, received, calculated)
	}
	return payload, nil
}
