// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/GermanBionicSystems/ee895/common"
	"github.com/goburrow/modbus"
)

const (
	// The module's own bus address. It seeds every checksum but is not sent.
	checksumPrefix byte = 0x5f

	funcRead  = modbus.FuncCodeReadHoldingRegisters
	funcWrite = modbus.FuncCodeWriteSingleRegister

	// function code, address (2), count or value (2)
	requestHeaderSize = 5
	// function code, byte count ... crc low, crc high
	readReplyOverhead = 4
	writeFrameSize    = requestHeaderSize + 2
)

var errZeroWords = errors.New("ee895: word count must be at least 1")

// checksumSeed is the CRC state after the implicit address byte.
var checksumSeed = common.CRC16Update(common.CRC16Init, []byte{checksumPrefix})

// Checksum returns the frame checksum of payload, which is the CRC16 of the
// implicit address byte 0x5F followed by payload. It is transmitted low byte
// first.
func Checksum(payload []byte) uint16 {
	return common.CRC16Update(checksumSeed, payload)
}

// encodePDU builds the wire frame for pdu: function code, data, checksum.
func encodePDU(pdu *modbus.ProtocolDataUnit) []byte {
	adu := make([]byte, 0, len(pdu.Data)+3)
	adu = append(adu, pdu.FunctionCode)
	adu = append(adu, pdu.Data...)
	crc := Checksum(adu)
	return append(adu, byte(crc), byte(crc>>8))
}

// dataBlock packs two words big-endian.
func dataBlock(a, b uint16) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data, a)
	binary.BigEndian.PutUint16(data[2:], b)
	return data
}

// BuildReadRequest returns the 7 byte frame reading words registers starting
// at address.
func BuildReadRequest(address, words uint16) ([]byte, error) {
	if words == 0 {
		return nil, errZeroWords
	}
	return encodePDU(&modbus.ProtocolDataUnit{
		FunctionCode: funcRead,
		Data:         dataBlock(address, words),
	}), nil
}

// ReadResponseSize is the size of the reply to a read of words registers.
func ReadResponseSize(words uint16) int {
	return readReplyOverhead + 2*int(words)
}

// ParseReadResponse validates a read reply of expectedLen bytes and returns
// the register data, which is everything between the function code and byte
// count echo and the trailing checksum. The returned slice aliases frame.
//
// A frame of the wrong size yields NotAcknowledged, a bad checksum
// ChecksumError.
func ParseReadResponse(frame []byte, expectedLen int) ([]byte, error) {
	if expectedLen < readReplyOverhead+2 || len(frame) != expectedLen {
		return nil, NotAcknowledged
	}
	n := len(frame)
	if binary.LittleEndian.Uint16(frame[n-2:]) != Checksum(frame[:n-2]) {
		return nil, ChecksumError
	}
	return frame[2 : n-2], nil
}

// BuildWriteRequest returns the 7 byte frame writing value to the single
// register at address. value is sent as given, high byte first.
func BuildWriteRequest(address uint16, value [2]byte) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data, address)
	data[2], data[3] = value[0], value[1]
	return encodePDU(&modbus.ProtocolDataUnit{FunctionCode: funcWrite, Data: data})
}

// ParseWriteResponse checks that the module echoed the write request. Any
// difference yields RegisterWriteMismatch.
func ParseWriteResponse(sent, received []byte) error {
	if !bytes.Equal(sent, received) {
		return RegisterWriteMismatch
	}
	return nil
}
