package weather

// Unit systems accepted by the API.
const (
	Metric   = "metric"
	Imperial = "imperial"
)

// ValidUnits reports whether u names a supported unit system.
func ValidUnits(u string) bool {
	return u == Metric || u == Imperial
}

// Toggle flips between the two unit systems. Anything unrecognized
// lands on metric.
func Toggle(u string) string {
	if u == Metric {
		return Imperial
	}
	return Metric
}

// TempUnit returns the display suffix for temperatures.
func TempUnit(u string) string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedUnit returns the display suffix for wind speed.
func SpeedUnit(u string) string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// ConvertTemp re-expresses a temperature between the two unit systems.
func ConvertTemp(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if to == Imperial {
		return v*9/5 + 32
	}
	return (v - 32) * 5 / 9
}

// metersPerSecondPerMph converts between the two wind speed scales.
const metersPerSecondPerMph = 0.44704

// ConvertSpeed re-expresses a wind speed between m/s and mph.
func ConvertSpeed(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if to == Imperial {
		return v / metersPerSecondPerMph
	}
	return v * metersPerSecondPerMph
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass maps a wind direction in degrees to its 16-wind label.
func Compass(deg int) string {
	deg = ((deg % 360) + 360) % 360
	idx := (deg*10 + 112) / 225 % 16
	return compassPoints[idx]
}
