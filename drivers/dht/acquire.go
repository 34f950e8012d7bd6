package dht

import "time"

// Pin is the sensor's data line, driven open-drain: Set(false) pulls the line
// low, Set(true) releases it to the pull-up.
//
// A Pin that can fault may also implement `Err() error`; a non-nil result
// after an acquisition is reported as *PinError.
type Pin interface {
	Set(high bool)
	Get() bool
}

// Delayer blocks the caller for at least d.
type Delayer interface {
	Sleep(d time.Duration)
}

// BusyDelay spins on the monotonic clock. Use it for the microsecond waits of
// the bit protocol, where scheduler sleeps are too coarse.
type BusyDelay struct{}

func (BusyDelay) Sleep(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// SleepDelay defers to time.Sleep.
type SleepDelay struct{}

func (SleepDelay) Sleep(d time.Duration) { time.Sleep(d) }

// Protocol timing.
const (
	startLow     = 18 * time.Millisecond
	releaseWait  = 48 * time.Microsecond
	sampleDelay  = 35 * time.Microsecond
	pollInterval = time.Microsecond
	pollLimit    = 100 // polls before ErrTimeout
)

// Checksum is the low byte of the sum of the payload bytes.
func Checksum(p Payload) byte {
	return p[0] + p[1] + p[2] + p[3]
}

// Verify splits a 5-byte frame into payload and checksum and checks them.
func Verify(frame [5]byte) (Payload, error) {
	p := Payload{frame[0], frame[1], frame[2], frame[3]}
	if Checksum(p) != frame[4] {
		return Payload{}, ErrChecksum
	}
	return p, nil
}

// ReadRaw runs one acquisition cycle: start signal, sensor response, then 40
// bits MSB first (4 payload bytes and a checksum). It blocks for roughly
// 25 ms.
func ReadRaw(delay Delayer, pin Pin) (Payload, error) {
	p, err := readFrame(delay, pin)
	if perr := pinErr(pin); perr != nil {
		return Payload{}, perr
	}
	return p, err
}

func readFrame(delay Delayer, pin Pin) (Payload, error) {
	pin.Set(false)
	delay.Sleep(startLow)
	pin.Set(true)
	delay.Sleep(releaseWait)

	// Response: sensor holds low ~80us, then high ~80us.
	if err := waitFor(delay, pin, true); err != nil {
		return Payload{}, err
	}
	if err := waitFor(delay, pin, false); err != nil {
		return Payload{}, err
	}

	var frame [5]byte
	for i := range frame {
		b, err := readByte(delay, pin)
		if err != nil {
			return Payload{}, err
		}
		frame[i] = b
	}
	return Verify(frame)
}

func readByte(delay Delayer, pin Pin) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := readBit(delay, pin)
		if err != nil {
			return 0, err
		}
		if bit {
			b |= 1 << (7 - i)
		}
	}
	return b, nil
}

// readBit: ~50us low, then high for ~27us (0) or ~70us (1).
func readBit(delay Delayer, pin Pin) (bool, error) {
	if err := waitFor(delay, pin, true); err != nil {
		return false, err
	}
	delay.Sleep(sampleDelay)
	high := pin.Get()
	if err := waitFor(delay, pin, false); err != nil {
		return false, err
	}
	return high, nil
}

func waitFor(delay Delayer, pin Pin, level bool) error {
	for i := 0; i < pollLimit; i++ {
		if pin.Get() == level {
			return nil
		}
		delay.Sleep(pollInterval)
	}
	return ErrTimeout
}

func pinErr(pin Pin) error {
	e, ok := pin.(interface{ Err() error })
	if !ok {
		return nil
	}
	if err := e.Err(); err != nil {
		return &PinError{Err: err}
	}
	return nil
}
