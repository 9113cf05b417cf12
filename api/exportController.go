package api

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/usecase"
)

const msgInvalidFormat = "Export format must be json or csv"

type ExportController struct {
	logger    logrus.FieldLogger
	exporter  ExporterUseCase
	validator QueryValidator
	launch    func(func())
}

func NewExportController(logger logrus.FieldLogger, exporter ExporterUseCase, validator QueryValidator) *ExportController {
	return &ExportController{
		logger:    logger,
		exporter:  exporter,
		validator: validator,
		launch:    func(fn func()) { go fn() },
	}
}

// ExportMetrics
// @Summary Export the daily metrics of a user to S3.
// @Description The window is validated, then the report is built and uploaded in the background.
// Background failures are only logged.
// @ID glucose-insights-export
// @Produce json
// @Success 202 {object} RestAPIResponse
// @Failure 400 {object} RestAPIResponse
// @Param userID path string true "The ID of the user"
// @Param startDate query string false "UTC date time 2006-01-02T15:04:05, lower limit"
// @Param endDate query string false "UTC date time 2006-01-02T15:04:05, upper limit"
// @Param format query string false "json (default) or csv"
// @Router /users/export/{userID} [get]
func (c *ExportController) ExportMetrics(ctx context.Context, res *common.HttpResponseWriter) error {
	query := dateWindowQuery(res)
	if err := c.validator.Validate(query); err != nil {
		return writeEnvelopeError(res, err)
	}
	format := res.URL.Query().Get("format")
	if format == "" {
		format = usecase.FormatJSON
	}
	if !usecase.IsValidFormat(format) {
		detailed := errorInvalidParameters
		detailed.InternalMessage = "format=" + format
		return res.WriteErrorWithBody(&detailed, RestAPIResponse{
			ErrorResponse: map[string]usecase.ValidationError{msgInvalidFormat: usecase.InvalidFieldValue},
		})
	}

	args := usecase.ExportArgs{
		UserID:  res.VARS["userID"],
		TraceID: res.TraceID,
		Query:   query,
		Format:  format,
	}
	c.logger.WithFields(logrus.Fields{"traceId": args.TraceID, "userId": args.UserID, "format": format}).Debug("export requested")
	c.launch(func() { c.exporter.Export(args) })
	return writeData(res, http.StatusAccepted, map[string]string{"status": "export started"})
}
