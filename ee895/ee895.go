// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/goburrow/modbus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the register interface address.
	DefaultAddress uint16 = 0x5f
	// SimplifiedAddress is the address of the checksum-less bulk read.
	SimplifiedAddress uint16 = 0x5e
)

const (
	minInterval = 100
	maxInterval = 36000
	minFilter   = 1
	maxFilter   = 20
)

// PPM=Parts Per Million. Units of measure for CO2 concentration.
type PPM int

func (ppm PPM) String() string {
	return fmt.Sprintf("%d PPM", int(ppm))
}

// Env is a reading of the three measured values. Humidity is not measured.
type Env struct {
	physic.Env
	CO2 PPM
}

func (e *Env) String() string {
	return fmt.Sprintf("Temperature: %s Pressure: %s CO2: %s", e.Temperature, e.Pressure, e.CO2)
}

// Mode is the measuring mode held by the module.
type Mode uint16

const (
	Continuous Mode = 0
	SingleShot Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Continuous:
		return "continuous"
	case SingleShot:
		return "single shot"
	default:
		return fmt.Sprintf("Mode(%d)", uint16(m))
	}
}

// Flags are the bits of the status register.
type Flags uint16

const (
	// A new measurement can be read.
	FlagDataReady Flags = 1 << 0
	// TriggerMeasurement may be called.
	FlagTriggerReady Flags = 1 << 1
)

// DetailedStatus is the low byte of the detailed status register. The user
// manual documents bit 0/1 CO2 too high/low, bit 2/3 temperature too
// high/low, bit 6/7 pressure too high/low.
type DetailedStatus uint8

// FirmwareVersion of the module.
type FirmwareVersion struct {
	Major uint8
	Minor uint8
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

type TemperatureUnit int

const (
	Celsius TemperatureUnit = iota
	Fahrenheit
	Kelvin
)

// CO2Variant selects averaged or raw CO2, with or without pressure
// compensation.
type CO2Variant int

const (
	CO2Average CO2Variant = iota
	CO2Raw
	CO2AverageUncompensated
	CO2RawUncompensated
)

type PressureUnit int

const (
	Millibar PressureUnit = iota
	PSI
)

// CustomerRegister selects one of the two free registers.
type CustomerRegister int

const (
	Customer1 CustomerRegister = iota + 1
	Customer2
)

var temperatureRegisters = [...]Register{Celsius: RegTemperatureC, Fahrenheit: RegTemperatureF, Kelvin: RegTemperatureK}
var co2Registers = [...]Register{
	CO2Average:              RegCO2Average,
	CO2Raw:                  RegCO2Raw,
	CO2AverageUncompensated: RegCO2AverageUncompensated,
	CO2RawUncompensated:     RegCO2RawUncompensated,
}
var pressureRegisters = [...]Register{Millibar: RegPressureMbar, PSI: RegPressurePSI}
var customerRegisters = map[CustomerRegister]Register{Customer1: RegCustomer1, Customer2: RegCustomer2}

// Opts holds the bus addresses used by the driver.
type Opts struct {
	Addr           uint16
	SimplifiedAddr uint16
}

// DefaultOpts are the factory addresses.
var DefaultOpts = Opts{Addr: DefaultAddress, SimplifiedAddr: SimplifiedAddress}

// Opener returns a freshly opened bus, for example
//
//	func() (i2c.BusCloser, error) { return i2creg.Open("1") }
type Opener func() (i2c.BusCloser, error)

// Dev represents an EE895 module.
type Dev struct {
	// Set when the caller owns the bus.
	bus i2c.Bus
	// Set when the driver opens and closes the bus around each transaction.
	open Opener
	opts Opts
	h    handler
}

// NewI2C returns a Dev using the caller owned bus b. opts may be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("ee895: nil bus")
	}
	return newDev(b, nil, opts), nil
}

// NewScoped returns a Dev that calls open before each transaction and closes
// the bus right after, so no handle is held between operations. opts may be
// nil.
func NewScoped(open Opener, opts *Opts) (*Dev, error) {
	if open == nil {
		return nil, errors.New("ee895: nil opener")
	}
	return newDev(nil, open, opts), nil
}

func newDev(b i2c.Bus, open Opener, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{bus: b, open: open, opts: *opts}
	d.h = handler{d: d}
	return d
}

func (d *Dev) String() string {
	if d.bus != nil {
		return fmt.Sprintf("ee895: %s", &i2c.Dev{Bus: d.bus, Addr: d.opts.Addr})
	}
	return fmt.Sprintf("ee895: scoped(0x%02x)", d.opts.Addr)
}

// Halt implements conn.Resource. There is nothing running to stop.
func (d *Dev) Halt() error {
	return nil
}

// tx performs one combined write-then-read transaction. r may be nil for a
// write only transaction.
func (d *Dev) tx(addr uint16, w, r []byte) (err error) {
	if d.open == nil {
		return (&i2c.Dev{Bus: d.bus, Addr: addr}).Tx(w, r)
	}
	b, err := d.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); err == nil {
			err = cerr
		}
	}()
	return (&i2c.Dev{Bus: b, Addr: addr}).Tx(w, r)
}

// ReadRegister reads r and returns its data with the framing removed.
func (d *Dev) ReadRegister(r Register) (Value, error) {
	resp, err := d.h.send(&modbus.ProtocolDataUnit{
		FunctionCode: funcRead,
		Data:         dataBlock(r.Address, r.Words),
	})
	if err != nil {
		return Value{}, opError(r.Name, err)
	}
	// Data is the byte count echo followed by the register data.
	return Value{Register: r, Raw: resp.Data[1:]}, nil
}

// WriteRegister writes value to r and checks the echo.
func (d *Dev) WriteRegister(r Register, value uint16) error {
	if !r.Writable {
		return fmt.Errorf("ee895: register %s is read only", r)
	}
	_, err := d.h.send(&modbus.ProtocolDataUnit{
		FunctionCode: funcWrite,
		Data:         dataBlock(r.Address, value),
	})
	if err != nil {
		return opError(r.Name, err)
	}
	return nil
}

func (d *Dev) readFloat(r Register) (float64, error) {
	v, err := d.ReadRegister(r)
	if err != nil {
		return 0, err
	}
	return v.Float64(), nil
}

func (d *Dev) readUint16(r Register) (uint16, error) {
	v, err := d.ReadRegister(r)
	if err != nil {
		return 0, err
	}
	return v.Uint16(), nil
}

// Temperature returns the temperature in unit u.
func (d *Dev) Temperature(u TemperatureUnit) (float64, error) {
	if u < 0 || int(u) >= len(temperatureRegisters) {
		return 0, fmt.Errorf("ee895: invalid temperature unit %d", u)
	}
	return d.readFloat(temperatureRegisters[u])
}

// CO2 returns the CO2 concentration in ppm.
func (d *Dev) CO2(v CO2Variant) (float64, error) {
	if v < 0 || int(v) >= len(co2Registers) {
		return 0, fmt.Errorf("ee895: invalid CO2 variant %d", v)
	}
	return d.readFloat(co2Registers[v])
}

// Pressure returns the barometric pressure in unit u.
func (d *Dev) Pressure(u PressureUnit) (float64, error) {
	if u < 0 || int(u) >= len(pressureRegisters) {
		return 0, fmt.Errorf("ee895: invalid pressure unit %d", u)
	}
	return d.readFloat(pressureRegisters[u])
}

// Sense reads temperature, pressure compensated average CO2 and pressure.
// These are three separate transactions.
func (d *Dev) Sense(env *Env) error {
	env.Temperature = 0
	env.Pressure = 0
	env.Humidity = 0
	env.CO2 = 0

	t, err := d.Temperature(Celsius)
	if err != nil {
		return err
	}
	co2, err := d.CO2(CO2Average)
	if err != nil {
		return err
	}
	p, err := d.Pressure(Millibar)
	if err != nil {
		return err
	}
	env.Temperature = physic.ZeroCelsius + physic.Temperature(t*float64(physic.Celsius))
	env.Pressure = physic.Pressure(p * float64(100*physic.Pascal))
	env.CO2 = PPM(math.Round(co2))
	return nil
}

// AllMeasurements performs the simplified read at Opts.SimplifiedAddr. The
// 8 byte reply carries no checksum: CO2 in ppm, temperature in 0.01°C,
// 2 reserved bytes, pressure in 0.1 mbar, all big-endian.
func (d *Dev) AllMeasurements() (Env, error) {
	r := make([]byte, 8)
	if err := d.tx(d.opts.SimplifiedAddr, []byte{0x00}, r); err != nil {
		return Env{}, opError("all_measurements", fmt.Errorf("%w: %w", NotAcknowledged, err))
	}
	env := Env{CO2: PPM(binary.BigEndian.Uint16(r[0:]))}
	t := int16(binary.BigEndian.Uint16(r[2:]))
	env.Temperature = physic.ZeroCelsius + physic.Temperature(t)*10*physic.MilliKelvin
	env.Pressure = physic.Pressure(binary.BigEndian.Uint16(r[6:])) * 10 * physic.Pascal
	return env, nil
}

// SerialNumber returns the 16 byte serial number.
func (d *Dev) SerialNumber() ([]byte, error) {
	v, err := d.ReadRegister(RegSerialNumber)
	return v.Raw, err
}

// SensorName returns the 16 byte name field, zero padded by the module.
func (d *Dev) SensorName() ([]byte, error) {
	v, err := d.ReadRegister(RegSensorName)
	return v.Raw, err
}

func (d *Dev) FirmwareVersion() (FirmwareVersion, error) {
	v, err := d.ReadRegister(RegFirmwareVersion)
	if err != nil {
		return FirmwareVersion{}, err
	}
	return FirmwareVersion{Major: v.Raw[0], Minor: v.Raw[1]}, nil
}

// MeasuringMode reads the current mode from the module.
func (d *Dev) MeasuringMode() (Mode, error) {
	v, err := d.readUint16(RegMeasuringMode)
	return Mode(v & 0x01), err
}

func (d *Dev) SetMeasuringMode(m Mode) error {
	if m != Continuous && m != SingleShot {
		return fmt.Errorf("ee895: invalid measuring mode %d", uint16(m))
	}
	return d.WriteRegister(RegMeasuringMode, uint16(m))
}

// Flags reads the status register.
func (d *Dev) Flags() (Flags, error) {
	v, err := d.readUint16(RegStatus)
	return Flags(v) & (FlagDataReady | FlagTriggerReady), err
}

// DataReady reports whether a new measurement is available.
func (d *Dev) DataReady() (bool, error) {
	f, err := d.Flags()
	return f&FlagDataReady != 0, err
}

// TriggerReady reports whether TriggerMeasurement may be called.
func (d *Dev) TriggerReady() (bool, error) {
	f, err := d.Flags()
	return f&FlagTriggerReady != 0, err
}

// TriggerMeasurement starts a measurement in single shot mode. The module
// ignores it in continuous mode; check MeasuringMode and TriggerReady first.
func (d *Dev) TriggerMeasurement() error {
	return d.WriteRegister(RegTrigger, 1)
}

func (d *Dev) DetailedStatus() (DetailedStatus, error) {
	v, err := d.readUint16(RegDetailedStatus)
	return DetailedStatus(v), err
}

// MeasuringInterval returns the continuous mode interval in tenths of a
// second.
func (d *Dev) MeasuringInterval() (uint16, error) {
	return d.readUint16(RegMeasuringInterval)
}

// SetMeasuringInterval sets the continuous mode interval, in tenths of a
// second. Values outside 100..36000 return InvalidIntervalInput without
// touching the bus.
func (d *Dev) SetMeasuringInterval(interval int) error {
	if interval < minInterval || interval > maxInterval {
		return &OpError{Op: RegMeasuringInterval.Name, Status: InvalidIntervalInput, Err: InvalidIntervalInput}
	}
	return d.WriteRegister(RegMeasuringInterval, uint16(interval))
}

func (d *Dev) FilterCoefficient() (uint16, error) {
	return d.readUint16(RegFilterCoefficient)
}

// SetFilterCoefficient sets the CO2 filter coefficient. Values outside 1..20
// return InvalidFilterInput without touching the bus.
func (d *Dev) SetFilterCoefficient(coefficient int) error {
	if coefficient < minFilter || coefficient > maxFilter {
		return &OpError{Op: RegFilterCoefficient.Name, Status: InvalidFilterInput, Err: InvalidFilterInput}
	}
	return d.WriteRegister(RegFilterCoefficient, uint16(coefficient))
}

// CO2Offset returns the customer CO2 offset in ppm.
func (d *Dev) CO2Offset() (int16, error) {
	v, err := d.ReadRegister(RegCO2Offset)
	return v.Int16(), err
}

func (d *Dev) SetCO2Offset(offset int16) error {
	return d.WriteRegister(RegCO2Offset, uint16(offset))
}

func (d *Dev) CustomerRegister(c CustomerRegister) (uint16, error) {
	r, ok := customerRegisters[c]
	if !ok {
		return 0, fmt.Errorf("ee895: invalid customer register %d", c)
	}
	return d.readUint16(r)
}

func (d *Dev) SetCustomerRegister(c CustomerRegister, value uint16) error {
	r, ok := customerRegisters[c]
	if !ok {
		return fmt.Errorf("ee895: invalid customer register %d", c)
	}
	return d.WriteRegister(r, value)
}

var _ conn.Resource = &Dev{}
