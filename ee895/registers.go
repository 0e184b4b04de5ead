// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import (
	"encoding/binary"
	"fmt"
)

// Kind is how the data bytes of a register are interpreted.
type Kind uint8

const (
	KindUint16 Kind = iota
	KindInt16
	// 4 bytes, see DecodeFloat.
	KindFloat
	// Opaque bytes such as the serial number or sensor name.
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindUint16:
		return "uint16"
	case KindInt16:
		return "int16"
	case KindFloat:
		return "float"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Register describes one entry of the module's register map.
type Register struct {
	Name     string
	Address  uint16
	Words    uint16
	Kind     Kind
	Writable bool
}

func (r Register) String() string {
	return fmt.Sprintf("%s(0x%04x)", r.Name, r.Address)
}

// The register map.
var (
	RegSerialNumber    = Register{Name: "serial_number", Address: 0x0000, Words: 8, Kind: KindBlob}
	RegFirmwareVersion = Register{Name: "firmware_version", Address: 0x0008, Words: 1, Kind: KindBlob}
	RegSensorName      = Register{Name: "sensor_name", Address: 0x0009, Words: 8, Kind: KindBlob}
	// Bit 0: 0 continuous, 1 single shot.
	RegMeasuringMode = Register{Name: "measuring_mode", Address: 0x01f8, Words: 1, Kind: KindUint16, Writable: true}
	// Bit 0 data ready, bit 1 trigger ready.
	RegStatus = Register{Name: "status", Address: 0x01f9, Words: 1, Kind: KindUint16}
	// Writing 1 starts a single shot measurement.
	RegTrigger        = Register{Name: "trigger", Address: 0x01fa, Words: 1, Kind: KindUint16, Writable: true}
	RegDetailedStatus = Register{Name: "detailed_status", Address: 0x0258, Words: 1, Kind: KindUint16}

	RegTemperatureC = Register{Name: "temperature_c", Address: 0x03ea, Words: 2, Kind: KindFloat}
	RegTemperatureF = Register{Name: "temperature_f", Address: 0x03ec, Words: 2, Kind: KindFloat}
	RegTemperatureK = Register{Name: "temperature_k", Address: 0x03f0, Words: 2, Kind: KindFloat}

	RegCO2Average              = Register{Name: "co2_average", Address: 0x0424, Words: 2, Kind: KindFloat}
	RegCO2Raw                  = Register{Name: "co2_raw", Address: 0x0426, Words: 2, Kind: KindFloat}
	RegCO2AverageUncompensated = Register{Name: "co2_average_uncompensated", Address: 0x0428, Words: 2, Kind: KindFloat}
	RegCO2RawUncompensated     = Register{Name: "co2_raw_uncompensated", Address: 0x042a, Words: 2, Kind: KindFloat}

	RegPressureMbar = Register{Name: "pressure_mbar", Address: 0x04b0, Words: 2, Kind: KindFloat}
	RegPressurePSI  = Register{Name: "pressure_psi", Address: 0x04b2, Words: 2, Kind: KindFloat}

	// Continuous mode interval in tenths of a second.
	RegMeasuringInterval = Register{Name: "measuring_interval", Address: 0x1450, Words: 1, Kind: KindUint16, Writable: true}
	RegFilterCoefficient = Register{Name: "filter_coefficient", Address: 0x1451, Words: 1, Kind: KindUint16, Writable: true}
	RegCO2Offset         = Register{Name: "co2_offset", Address: 0x1452, Words: 1, Kind: KindInt16, Writable: true}

	// Free for customer use since firmware 1.1.1.
	RegCustomer1 = Register{Name: "customer_1", Address: 0x16a8, Words: 1, Kind: KindUint16, Writable: true}
	RegCustomer2 = Register{Name: "customer_2", Address: 0x16a9, Words: 1, Kind: KindUint16, Writable: true}
)

// Registers lists the register map in address order.
var Registers = []Register{
	RegSerialNumber,
	RegFirmwareVersion,
	RegSensorName,
	RegMeasuringMode,
	RegStatus,
	RegTrigger,
	RegDetailedStatus,
	RegTemperatureC,
	RegTemperatureF,
	RegTemperatureK,
	RegCO2Average,
	RegCO2Raw,
	RegCO2AverageUncompensated,
	RegCO2RawUncompensated,
	RegPressureMbar,
	RegPressurePSI,
	RegMeasuringInterval,
	RegFilterCoefficient,
	RegCO2Offset,
	RegCustomer1,
	RegCustomer2,
}

// Lookup returns the register called name.
func Lookup(name string) (Register, bool) {
	for _, r := range Registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// Value is the data read from a register.
type Value struct {
	Register Register
	// Raw holds Register.Words*2 bytes, framing removed.
	Raw []byte
}

// Uint16 returns the first data word.
func (v Value) Uint16() uint16 {
	if len(v.Raw) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(v.Raw)
}

// Int16 returns the first data word as two's complement.
func (v Value) Int16() int16 {
	return int16(v.Uint16())
}

// Float64 converts the value according to the register's Kind. Blobs return
// 0.
func (v Value) Float64() float64 {
	switch v.Register.Kind {
	case KindUint16:
		return float64(v.Uint16())
	case KindInt16:
		return float64(v.Int16())
	case KindFloat:
		if len(v.Raw) < 4 {
			return 0
		}
		return DecodeFloat([4]byte(v.Raw[:4]))
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Register.Kind {
	case KindBlob:
		return fmt.Sprintf("% x", v.Raw)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float64())
	case KindInt16:
		return fmt.Sprintf("%d", v.Int16())
	default:
		return fmt.Sprintf("%d", v.Uint16())
	}
}
