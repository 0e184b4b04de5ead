// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import (
	"encoding/binary"
	"fmt"

	"github.com/goburrow/modbus"
)

// handler adapts the I2C framing to goburrow/modbus. The module's frames are
// Modbus RTU ADUs without the leading slave address, which only enters the
// checksum.
type handler struct {
	d *Dev
}

// ModbusHandler returns a modbus.ClientHandler for generic register access,
// for example:
//
//	c := modbus.NewClient(dev.ModbusHandler())
//	b, err := c.ReadHoldingRegisters(0x03ea, 2)
//
// Only ReadHoldingRegisters and WriteSingleRegister are supported by the
// module.
func (d *Dev) ModbusHandler() modbus.ClientHandler {
	return handler{d: d}
}

// Encode implements modbus.Packager.
func (h handler) Encode(pdu *modbus.ProtocolDataUnit) ([]byte, error) {
	switch pdu.FunctionCode {
	case funcRead, funcWrite:
	default:
		return nil, fmt.Errorf("ee895: unsupported function code 0x%02x", pdu.FunctionCode)
	}
	if len(pdu.Data) != requestHeaderSize-1 {
		return nil, fmt.Errorf("ee895: invalid request data length %d", len(pdu.Data))
	}
	if pdu.FunctionCode == funcRead && binary.BigEndian.Uint16(pdu.Data[2:]) == 0 {
		return nil, errZeroWords
	}
	return encodePDU(pdu), nil
}

// Decode implements modbus.Packager. The checksum is stripped; Verify has
// already checked it.
func (h handler) Decode(adu []byte) (*modbus.ProtocolDataUnit, error) {
	if len(adu) < 3 {
		return nil, NotAcknowledged
	}
	return &modbus.ProtocolDataUnit{FunctionCode: adu[0], Data: adu[1 : len(adu)-2]}, nil
}

// Verify implements modbus.Packager.
func (h handler) Verify(aduRequest, aduResponse []byte) error {
	if aduRequest[0] == funcWrite {
		return ParseWriteResponse(aduRequest, aduResponse)
	}
	n, err := responseSize(aduRequest)
	if err != nil {
		return err
	}
	_, err = ParseReadResponse(aduResponse, n)
	return err
}

// Send implements modbus.Transporter as one combined write-then-read
// transaction on the register address.
func (h handler) Send(aduRequest []byte) ([]byte, error) {
	n, err := responseSize(aduRequest)
	if err != nil {
		return nil, err
	}
	r := make([]byte, n)
	if err := h.d.tx(h.d.opts.Addr, aduRequest, r); err != nil {
		return nil, fmt.Errorf("%w: %w", NotAcknowledged, err)
	}
	return r, nil
}

// send is the single request path: encode, transfer, verify, decode.
func (h handler) send(pdu *modbus.ProtocolDataUnit) (*modbus.ProtocolDataUnit, error) {
	req, err := h.Encode(pdu)
	if err != nil {
		return nil, err
	}
	resp, err := h.Send(req)
	if err != nil {
		return nil, err
	}
	if err := h.Verify(req, resp); err != nil {
		return nil, err
	}
	return h.Decode(resp)
}

// responseSize is the reply size the module sends for the request frame.
func responseSize(req []byte) (int, error) {
	if len(req) < requestHeaderSize {
		return 0, fmt.Errorf("ee895: short request frame %d", len(req))
	}
	switch req[0] {
	case funcRead:
		return ReadResponseSize(binary.BigEndian.Uint16(req[3:5])), nil
	case funcWrite:
		return writeFrameSize, nil
	default:
		return 0, fmt.Errorf("ee895: unsupported function code 0x%02x", req[0])
	}
}

var _ modbus.ClientHandler = handler{}
