package api

import (
	"context"
	"net/http"

	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/usecase"
)

func dateWindowQuery(res *common.HttpResponseWriter) usecase.DateWindowQuery {
	query := res.URL.Query()
	return usecase.DateWindowQuery{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}
}

// @Summary Get a user profile
// @ID glucose-insights-api-getuser
// @Produce json
// @Success 200 {object} schema.UserProfile
// @Failure 404 {object} common.DetailedError
// @Failure 500 {object} common.DetailedError
// @Param userID path string true "The ID of the user"
// @Router /users/{userID} [get]
func (a *API) getUser(ctx context.Context, res *common.HttpResponseWriter) error {
	user, err := a.users.GetUser(ctx, res.TraceID, res.VARS["userID"])
	if err != nil {
		detailed := errorRunningQuery.SetInternalMessage(err)
		return res.WriteError(&detailed)
	}
	if user == nil {
		return res.WriteError(&errorUserNotFound)
	}
	return res.WriteJSON(http.StatusOK, user)
}

// @Summary Get the daily glucose metrics of a user
// @Description Min, max and average glucose value for every day having readings, the last 14 days by default
// @ID glucose-insights-api-getgraph
// @Produce json
// @Success 200 {object} RestAPIResponse
// @Failure 400 {object} RestAPIResponse
// @Failure 500 {object} RestAPIResponse
// @Param userID path string true "The ID of the user"
// @Param startDate query string false "UTC date time 2006-01-02T15:04:05, lower limit"
// @Param endDate query string false "UTC date time 2006-01-02T15:04:05, upper limit"
// @Param x-tidepool-trace-session header string false "Trace session uuid" format(uuid)
// @Router /users/graph/{userID} [get]
func (a *API) getDailyMetrics(ctx context.Context, res *common.HttpResponseWriter) error {
	metrics, err := a.metrics.ComputeDailyMetrics(ctx, res.TraceID, res.VARS["userID"], dateWindowQuery(res))
	if err != nil {
		return writeEnvelopeError(res, err)
	}
	return writeData(res, http.StatusOK, metrics)
}

// @Summary Get the 30 days calendar of a user
// @Description Number of readings per device for every day of the last 30 days having readings
// @ID glucose-insights-api-getcalendar
// @Produce json
// @Success 200 {object} RestAPIResponse
// @Failure 500 {object} RestAPIResponse
// @Param userID path string true "The ID of the user"
// @Router /users/calendar/{userID} [get]
func (a *API) getCalendar(ctx context.Context, res *common.HttpResponseWriter) error {
	calendar, err := a.calendar.BuildCalendar(ctx, res.TraceID, res.VARS["userID"])
	if err != nil {
		return writeEnvelopeError(res, err)
	}
	return writeData(res, http.StatusOK, calendar)
}
