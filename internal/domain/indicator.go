package domain

import "time"

// Frequency is the closed set of indicator observation cadences.
type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyAnnual    Frequency = "Annual"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// EconomicIndicator is one macro observation per (indicator_name, date).
// Indicators are process-wide: they carry no asset reference and live
// independently of the registry.
type EconomicIndicator struct {
	IndicatorName string    `json:"indicator_name"`
	IndicatorCode string    `json:"indicator_code,omitempty"`
	Date          time.Time `json:"date"`
	Value         Decimal   `json:"value"`
	Unit          string    `json:"unit,omitempty"`
	Frequency     Frequency `json:"frequency"`
	Source        string    `json:"source,omitempty"`
}

func (i *EconomicIndicator) Validate() error {
	if i.IndicatorName == "" {
		return &ValidationError{Field: "indicator_name", Reason: "must not be empty"}
	}
	if i.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if !i.Frequency.IsValid() {
		return &ValidationError{Field: "frequency", Reason: "unknown frequency " + string(i.Frequency)}
	}
	return nil
}

func (i *EconomicIndicator) Normalize() {
	i.Date = midnightUTC(i.Date)
}
