// Package weather fetches and models forecast data for a resolved
// location, using the proxy's one-call passthrough route.
package weather

import "time"

// Condition describes one weather condition entry (clear, rain, ...).
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Current holds the present conditions at the requested point.
// Temperatures and wind speed arrive in the units the report was
// requested with.
type Current struct {
	Dt         int64       `json:"dt"`
	Sunrise    int64       `json:"sunrise"`
	Sunset     int64       `json:"sunset"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Pressure   int         `json:"pressure"`
	Humidity   int         `json:"humidity"`
	UVI        float64     `json:"uvi"`
	Clouds     int         `json:"clouds"`
	WindSpeed  float64     `json:"wind_speed"`
	WindDeg    int         `json:"wind_deg"`
	Conditions []Condition `json:"weather"`
}

// DailyTemp is the per-day temperature spread.
type DailyTemp struct {
	Day float64 `json:"day"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Daily is one day of forecast.
type Daily struct {
	Dt         int64       `json:"dt"`
	Temp       DailyTemp   `json:"temp"`
	Pop        float64     `json:"pop"`
	Conditions []Condition `json:"weather"`
}

// Report is a one-call weather report: current conditions plus the
// daily forecast, with the location's timezone for local rendering.
type Report struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Timezone       string  `json:"timezone"`
	TimezoneOffset int     `json:"timezone_offset"`
	Current        Current `json:"current"`
	Daily          []Daily `json:"daily"`
}

// Summary returns the description of the leading condition, or "" when
// the upstream sent none.
func (c Current) Summary() string {
	if len(c.Conditions) == 0 {
		return ""
	}
	return c.Conditions[0].Description
}

// Summary returns the description of the day's leading condition.
func (d Daily) Summary() string {
	if len(d.Conditions) == 0 {
		return ""
	}
	return d.Conditions[0].Description
}

// Local converts a unix timestamp from the report into the location's
// local time.
func (r *Report) Local(ts int64) time.Time {
	zone := time.FixedZone(r.Timezone, r.TimezoneOffset)
	return time.Unix(ts, 0).In(zone)
}

// Converted returns a copy of the report with temperatures and wind
// speed re-expressed in another unit system. The receiver is left
// untouched.
func (r *Report) Converted(from, to string) *Report {
	if from == to {
		return r
	}

	out := *r
	out.Current.Temp = ConvertTemp(r.Current.Temp, from, to)
	out.Current.FeelsLike = ConvertTemp(r.Current.FeelsLike, from, to)
	out.Current.WindSpeed = ConvertSpeed(r.Current.WindSpeed, from, to)

	out.Daily = make([]Daily, len(r.Daily))
	for i, d := range r.Daily {
		d.Temp.Day = ConvertTemp(d.Temp.Day, from, to)
		d.Temp.Min = ConvertTemp(d.Temp.Min, from, to)
		d.Temp.Max = ConvertTemp(d.Temp.Max, from, to)
		out.Daily[i] = d
	}
	return &out
}
