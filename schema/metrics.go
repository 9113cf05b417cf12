package schema

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// AveragePrecision number of decimal places kept on the daily average
const AveragePrecision int32 = 1

type (
	// DailyMetrics glucose statistics for one UTC calendar day
	DailyMetrics struct {
		Day     string          `json:"day"`
		Min     int             `json:"min"`
		Max     int             `json:"max"`
		Average decimal.Decimal `json:"average"`
	}

	// DeviceCount number of readings sent by a device on a given day
	DeviceCount struct {
		DeviceID      string `json:"deviceId"`
		NumOfReadings int    `json:"numOfReadings"`
	}

	// CalendarEntry the devices which sent readings on a given day
	CalendarEntry struct {
		Date    string        `json:"date"`
		Entries []DeviceCount `json:"entries"`
	}
)

// MarshalJSON keeps the average as a JSON number with a fixed scale (100.0, not "100")
func (m DailyMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Day     string          `json:"day"`
		Min     int             `json:"min"`
		Max     int             `json:"max"`
		Average json.RawMessage `json:"average"`
	}{
		Day:     m.Day,
		Min:     m.Min,
		Max:     m.Max,
		Average: json.RawMessage(m.Average.StringFixed(AveragePrecision)),
	})
}

// CsvRecord the metrics as a csv line, in the CsvHeader order
func (m DailyMetrics) CsvRecord() []string {
	return []string{
		m.Day,
		strconv.Itoa(m.Min),
		strconv.Itoa(m.Max),
		m.Average.StringFixed(AveragePrecision),
	}
}

// CsvHeader columns of DailyMetrics.CsvRecord
func CsvHeader() []string {
	return []string{"day", "min", "max", "average"}
}
