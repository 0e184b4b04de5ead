// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ee895 provides a driver for the E+E Elektronik EE895 CO2,
// temperature and barometric pressure sensor module.
//
// The module speaks a Modbus style register protocol over I2C. Each request
// is a function code (0x03 read, 0x06 write single register), a big-endian
// register address, a big-endian word count or value, then a little-endian
// CRC16. The CRC also covers the module's bus address (0x5F) even though that
// byte is never sent. Float registers use the module's own 4 byte layout, see
// DecodeFloat.
//
// A second, simplified interface at address 0x5E returns CO2, temperature and
// pressure in one 8 byte reply without a checksum. Use Dev.AllMeasurements.
//
// # Measuring modes
//
// In continuous mode the module samples on its own at MeasuringInterval. In
// single shot mode the caller checks TriggerReady, calls TriggerMeasurement,
// then polls DataReady before reading values. The driver does not track or
// enforce the mode; triggering in continuous mode is left to the device.
//
// # Concurrency
//
// Dev performs no locking. Each operation is one bus transaction. Callers
// sharing a Dev, or a bus, between goroutines must serialize access.
//
// Refer to the EE895 user manual for the register map.
package ee895
