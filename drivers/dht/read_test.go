package dht

import (
	"errors"
	"testing"
)

// countingReading is a third model used to observe decoder calls.
type countingReading struct{ first byte }

var decodeCalls int

func (countingReading) FromRaw(p Payload) countingReading {
	decodeCalls++
	return countingReading{first: p[0]}
}

func rawOK(p Payload) RawReader {
	return func(Delayer, Pin) (Payload, error) { return p, nil }
}

func rawErr(err error) RawReader {
	return func(Delayer, Pin) (Payload, error) { return Payload{0xFF, 0xFF, 0xFF, 0xFF}, err }
}

func TestReadFromDecodesRequestedModel(t *testing.T) {
	r11, err := ReadFrom[DHT11Reading](rawOK(Payload{60, 7, 25, 9}), nil, nil)
	if err != nil {
		t.Fatalf("dht11: %v", err)
	}
	if r11 != (DHT11Reading{Temperature: 25, RelativeHumidity: 60}) {
		t.Fatalf("dht11: got %+v", r11)
	}

	r22, err := ReadFrom[DHT22Reading](rawOK(Payload{0x01, 0x90, 0x00, 0x64}), nil, nil)
	if err != nil {
		t.Fatalf("dht22: %v", err)
	}
	if r22 != (DHT22Reading{Temperature: 10, RelativeHumidity: 40}) {
		t.Fatalf("dht22: got %+v", r22)
	}
}

func TestReadFromPassesErrorThrough(t *testing.T) {
	sentinel := errors.New("pin stuck")
	decodeCalls = 0

	r, err := ReadFrom[countingReading](rawErr(sentinel), nil, nil)
	if err != sentinel {
		t.Fatalf("got %v, want the collaborator's error value", err)
	}
	if decodeCalls != 0 {
		t.Fatalf("decoder called %d times on failure", decodeCalls)
	}
	if r != (countingReading{}) {
		t.Fatalf("expected zero reading, got %+v", r)
	}

	var pe *PinError
	_, err = ReadFrom[DHT22Reading](rawErr(&PinError{Err: sentinel}), nil, nil)
	if !errors.As(err, &pe) || pe.Err != sentinel {
		t.Fatalf("typed error not forwarded: %v", err)
	}
}

func TestReadFromSingleAttempt(t *testing.T) {
	calls := 0
	raw := func(Delayer, Pin) (Payload, error) {
		calls++
		return Payload{}, ErrTimeout
	}
	if _, err := ReadFrom[DHT11Reading](raw, nil, nil); err != ErrTimeout {
		t.Fatalf("got %v", err)
	}
	if calls != 1 {
		t.Fatalf("acquisition called %d times", calls)
	}
}

func TestReadFromCustomModel(t *testing.T) {
	decodeCalls = 0
	r, err := ReadFrom[countingReading](rawOK(Payload{42}), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.first != 42 || decodeCalls != 1 {
		t.Fatalf("got %+v after %d calls", r, decodeCalls)
	}
}
