package dht

import "math"

// Payload is the data part of one acquisition frame, checksum excluded.
// Byte roles depend on the model.
type Payload [4]byte

// ConvertSigned splits a sign-magnitude byte into its sign bit (bit 7) and
// 7-bit magnitude. 0x00 and 0x80 both encode zero.
func ConvertSigned(b byte) (negative bool, magnitude uint8) {
	return b&0x80 != 0, b & 0x7F
}

// DHT11Reading is a whole-unit reading from a DHT11.
type DHT11Reading struct {
	Temperature      int8  // °C
	RelativeHumidity uint8 // %RH
}

// FromRaw decodes [rh, rh_dec, temp, temp_dec]. The decimal bytes are ignored.
func (DHT11Reading) FromRaw(p Payload) DHT11Reading {
	neg, mag := ConvertSigned(p[2])
	t := int8(mag)
	if neg {
		t = -t
	}
	return DHT11Reading{Temperature: t, RelativeHumidity: p[0]}
}

func (r DHT11Reading) DeciCelsius() int32     { return int32(r.Temperature) * 10 }
func (r DHT11Reading) DeciRelHumidity() int32 { return int32(r.RelativeHumidity) * 10 }

// DHT22Reading is a tenth-unit reading from a DHT22/AM2302.
type DHT22Reading struct {
	Temperature      float32 // °C
	RelativeHumidity float32 // %RH
}

// FromRaw decodes [rh_hi, rh_lo, temp_hi_signed, temp_lo].
func (DHT22Reading) FromRaw(p Payload) DHT22Reading {
	rh := uint16(p[0])<<8 | uint16(p[1])
	neg, hi := ConvertSigned(p[2])
	mag := uint16(hi)<<8 | uint16(p[3])
	t := float32(mag) / 10.0
	if neg {
		t = -t
	}
	return DHT22Reading{Temperature: t, RelativeHumidity: float32(rh) / 10.0}
}

func (r DHT22Reading) DeciCelsius() int32 {
	return int32(math.Round(float64(r.Temperature) * 10))
}

func (r DHT22Reading) DeciRelHumidity() int32 {
	return int32(math.Round(float64(r.RelativeHumidity) * 10))
}
