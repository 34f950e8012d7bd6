package dht

// Decoder is implemented by each reading type. FromRaw is called on the zero
// value and must not depend on the receiver.
type Decoder[R any] interface {
	FromRaw(p Payload) R
}

// FixedPoint exposes a reading in tenths of a unit.
type FixedPoint interface {
	DeciCelsius() int32
	DeciRelHumidity() int32
}

// RawReader performs one acquisition cycle.
type RawReader func(delay Delayer, pin Pin) (Payload, error)

// Compile-time checks.
var (
	_ Decoder[DHT11Reading] = DHT11Reading{}
	_ Decoder[DHT22Reading] = DHT22Reading{}
	_ FixedPoint            = DHT11Reading{}
	_ FixedPoint            = DHT22Reading{}
	_ RawReader             = ReadRaw
)

// Decode converts a payload using R's decoding rules.
func Decode[R Decoder[R]](p Payload) R {
	var zero R
	return zero.FromRaw(p)
}

// Read acquires one frame with ReadRaw and decodes it as R.
func Read[R Decoder[R]](delay Delayer, pin Pin) (R, error) {
	return ReadFrom[R](ReadRaw, delay, pin)
}

// ReadFrom acquires one frame through raw and decodes it as R. A failed
// acquisition returns raw's error as-is and R is not decoded. There is no
// retry.
func ReadFrom[R Decoder[R]](raw RawReader, delay Delayer, pin Pin) (R, error) {
	var zero R
	p, err := raw(delay, pin)
	if err != nil {
		return zero, err
	}
	return zero.FromRaw(p), nil
}
