package api

import (
	"errors"
	"net/http"

	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/usecase"
)

// RestAPIResponse envelope of the graph, calendar and export replies
type RestAPIResponse struct {
	Data          interface{} `json:"data"`
	ErrorResponse interface{} `json:"errorResponse"`
}

func writeData(res *common.HttpResponseWriter, statusCode int, data interface{}) error {
	return res.WriteJSON(statusCode, RestAPIResponse{Data: data})
}

// writeEnvelopeError validation failures give a 400 with the message -> kind map,
// anything else is reported as a store error
func writeEnvelopeError(res *common.HttpResponseWriter, err error) error {
	var validationErrors *usecase.ValidationErrors
	if errors.As(err, &validationErrors) {
		detailed := errorInvalidParameters.SetInternalMessage(err)
		return res.WriteErrorWithBody(&detailed, RestAPIResponse{ErrorResponse: validationErrors.Messages})
	}
	detailed := errorRunningQuery.SetInternalMessage(err)
	detailed.ID = res.TraceID
	return res.WriteErrorWithBody(&detailed, RestAPIResponse{ErrorResponse: &detailed})
}

var (
	errorInvalidParameters = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_parameters", Message: "one or more parameters are invalid"}
	errorRunningQuery      = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_store_error", Message: "internal server error"}
	errorUserNotFound      = common.DetailedError{Status: http.StatusNotFound, Code: "user_not_found", Message: "no user for specified id"}
)
