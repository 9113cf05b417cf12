package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/common"
)

const exportTimeLayout = "2006-01-02T15-04-05Z"

type ExportArgs struct {
	UserID  string
	TraceID string
	Query   DateWindowQuery
	Format  string
}

type Exporter struct {
	logger   logrus.FieldLogger
	uploader Uploader
	metrics  DailyMetricsUseCase
	now      func() time.Time
}

func NewExporter(logger logrus.FieldLogger, metrics DailyMetricsUseCase, uploader Uploader) Exporter {
	return Exporter{
		logger:   logger,
		uploader: uploader,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Export compute the daily metrics of the user then upload them, meant to be run in its own go routine
func (e Exporter) Export(args ExportArgs) {
	logger := e.logger.WithFields(logrus.Fields{"traceId": args.TraceID, "userId": args.UserID})
	logger.Info("launching export process")
	format := args.Format
	if format == "" {
		format = FormatJSON
	}
	backgroundCtx := common.TimeItContext(context.Background())
	startExportTime := e.now().UTC().Round(time.Second).Format(exportTimeLayout)

	metrics, err := e.metrics.ComputeDailyMetrics(backgroundCtx, args.TraceID, args.UserID, args.Query)
	if err != nil {
		logger.WithError(err).Error("compute daily metrics failed")
		return
	}
	buffer, err := encodeMetrics(format, metrics)
	if err != nil {
		logger.WithError(err).Error("encode daily metrics failed")
		return
	}
	filename := strings.Join([]string{args.UserID, startExportTime}, "/") + "." + format
	if err := e.uploader.Upload(backgroundCtx, filename, buffer); err != nil {
		logger.WithError(err).Error("S3 upload failed")
		return
	}
	logger.WithFields(logrus.Fields{"filename": filename, "timers": common.TimeResults(backgroundCtx)}).Info("upload to S3 done with success")
}
