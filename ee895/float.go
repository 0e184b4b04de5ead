// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import "math"

// DecodeFloat converts the 4 data bytes of a float register.
//
// The bytes arrive as {b0, b1, b2, b3} where b2 holds the sign and the top 7
// exponent bits, b3 holds the last exponent bit and the top 7 mantissa bits,
// and b0, b1 hold the rest of the 23 bit mantissa field. Only mantissa bits
// 22..1 are used, bit i weighing 2^(i-23). Bit 0 is ignored, so this is not an
// IEEE-754 decode.
func DecodeFloat(b [4]byte) float64 {
	sign := 1.0
	if b[2]&0x80 != 0 {
		sign = -1.0
	}
	exp := int(b[2]&0x7f)<<1 | int(b[3]>>7)
	mantissa := uint32(b[3]&0x7f)<<16 | uint32(b[0])<<8 | uint32(b[1])
	frac := float64(mantissa>>1) / (1 << 22)
	return sign * math.Ldexp(1+frac, exp-127)
}
