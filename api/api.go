package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/usecase"
	"github.com/tidepool-org/go-common/clients/status"
)

type (
	// API struct for glucose-insights
	API struct {
		users            UserUseCase
		metrics          MetricsUseCase
		calendar         CalendarUseCase
		exportController *ExportController
		databaseAdapter  usecase.DatabaseAdapter
		logger           logrus.FieldLogger
	}
)

var (
	errorStatusCheck   = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_status_check", Message: "checking of the status endpoint showed an error"}
	errorLoadingEvents = common.DetailedError{Status: http.StatusInternalServerError, Code: "json_marshal_error", Message: "internal server error"}
	errorNotFound      = common.DetailedError{Status: http.StatusNotFound, Code: "not_found", Message: "route not found"}
)

// InitAPI exportController may be nil, the export route is not served then
func InitAPI(users UserUseCase, metrics MetricsUseCase, calendar CalendarUseCase, exportController *ExportController, dbAdapter usecase.DatabaseAdapter, logger logrus.FieldLogger) *API {
	return &API{
		users:            users,
		metrics:          metrics,
		calendar:         calendar,
		exportController: exportController,
		databaseAdapter:  dbAdapter,
		logger:           logger,
	}
}

// SetHandlers set the API routes
func (a *API) SetHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/users/graph/{userID}", a.middleware(a.getDailyMetrics, "userID")).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/users/calendar/{userID}", a.middleware(a.getCalendar, "userID")).Methods(http.MethodGet)
	if a.exportController != nil {
		rtr.HandleFunc(prefix+"/users/export/{userID}", a.middleware(a.exportController.ExportMetrics, "userID")).Methods(http.MethodGet)
	}
	rtr.HandleFunc(prefix+"/users/{userID}", a.middleware(a.getUser, "userID")).Methods(http.MethodGet)

	rtr.HandleFunc("/status", a.getStatus).Methods(http.MethodGet)
	rtr.NotFoundHandler = a.middleware(a.getNotFound)
}

func (a *API) getNotFound(ctx context.Context, res *common.HttpResponseWriter) error {
	return res.WriteError(&errorNotFound)
}

// @Summary Get the api status
// @Description Get the api status
// @ID glucose-insights-api-getstatus
// @Produce json
// @Success 200 {object} status.ApiStatus
// @Failure 500 {object} status.ApiStatus
// @Router /status [get]
func (a *API) getStatus(res http.ResponseWriter, req *http.Request) {
	start := time.Now()
	var s status.ApiStatus
	if err := a.databaseAdapter.Ping(); err != nil {
		errorLog := errorStatusCheck.SetInternalMessage(err)
		a.logError(&errorLog, start)
		s = status.NewApiStatus(errorLog.Status, err.Error())
	} else {
		s = status.NewApiStatus(http.StatusOK, "OK")
	}
	jsonDetails, err := json.Marshal(s)
	if err != nil {
		errorLog := errorLoadingEvents.SetInternalMessage(err)
		a.logError(&errorLog, start)
		res.WriteHeader(errorLog.Status)
		return
	}
	res.Header().Add("content-type", "application/json")
	res.WriteHeader(s.Status.Code)
	res.Write(jsonDetails)
}

func (a *API) logError(err *common.DetailedError, startedAt time.Time) {
	a.logger.WithFields(logrus.Fields{
		"code":     err.Code,
		"duration": time.Since(startedAt).Seconds(),
	}).Errorf("%s: %s", err.Message, err.InternalMessage)
}
