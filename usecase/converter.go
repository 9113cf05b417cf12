package usecase

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/tidepool-org/glucose-insights/schema"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// IsValidFormat true for the supported export formats
func IsValidFormat(format string) bool {
	return format == FormatJSON || format == FormatCSV
}

func encodeMetrics(format string, metrics []schema.DailyMetrics) (*bytes.Buffer, error) {
	switch format {
	case FormatCSV:
		return metricsToCsv(metrics)
	case FormatJSON:
		return metricsToJson(metrics)
	}
	return nil, fmt.Errorf("unsupported format [%s]", format)
}

func metricsToJson(metrics []schema.DailyMetrics) (*bytes.Buffer, error) {
	buffer := &bytes.Buffer{}
	if err := json.NewEncoder(buffer).Encode(metrics); err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	return buffer, nil
}

func metricsToCsv(metrics []schema.DailyMetrics) (*bytes.Buffer, error) {
	csvBuffer := &bytes.Buffer{}
	csvWriter := csv.NewWriter(csvBuffer)
	if err := csvWriter.Write(schema.CsvHeader()); err != nil {
		return nil, err
	}
	for _, dailyMetrics := range metrics {
		if err := csvWriter.Write(dailyMetrics.CsvRecord()); err != nil {
			return nil, err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, err
	}
	return csvBuffer, nil
}
