package types

// ------------------------
// Temperature & humidity
// ------------------------

type TemperatureInfo struct {
	Sensor string `json:"sensor"` // "dht11", "dht22"
	Pin    string `json:"pin"`    // "GPIO4", "GP15", ...
}

type HumidityInfo struct {
	Sensor string `json:"sensor"`
	Pin    string `json:"pin"`
}

type TemperatureValue struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16 `json:"deci_c"`
}

type HumidityValue struct {
	// Hundredths of %RH (0..10000 for 0..100.00%).
	RHx100 uint16 `json:"rh_x100"`
}
