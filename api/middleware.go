package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/common"
)

const maxUserIDLength = 64

// HandlerLoggerFunc expose our httpResponseWriter API
type HandlerLoggerFunc func(context.Context, *common.HttpResponseWriter) error

var errorInvalidUserID = common.DetailedError{
	Status:          http.StatusBadRequest,
	Code:            "invalid_userid",
	Message:         "Invalid parameter userId",
	InternalMessage: "userID is too long",
}

// middleware trace id, route parameters and request log around fn
func (a *API) middleware(fn HandlerLoggerFunc, params ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		start := time.Now().UTC()

		// Read the request before any write
		logErrors := make([]string, 0, 5)
		logRequest := fmt.Sprintf("%s %s HTTP/%d.%d", r.Method, r.URL.String(), r.ProtoMajor, r.ProtoMinor)

		traceID := r.Header.Get("x-tidepool-trace-session")
		if !common.IsValidUUID(traceID) {
			// not enforced
			logErrors = append(logErrors, fmt.Sprintf("no-trace:\"%s\"", traceID))
			traceID = uuid.New().String()
		}

		ctx := common.TimeItContext(r.Context())

		res := common.HttpResponseWriter{
			Header:     r.Header.Clone(),
			URL:        r.URL,
			TraceID:    traceID,
			StatusCode: http.StatusOK,
		}

		if len(params) > 0 {
			res.VARS = mux.Vars(r)
			if common.Contains(params, "userID") && len(res.VARS["userID"]) > maxUserIDLength {
				res.WriteError(&errorInvalidUserID)
			}
		}

		// No read from the request below this point

		if res.Err == nil {
			if err = fn(ctx, &res); err != nil {
				logErrors = append(logErrors, fmt.Sprintf("efn:\"%s\"", err))
			}
		}

		w.Header().Add("Content-Type", "application/json")
		w.Header().Set("x-tidepool-trace-session", traceID)
		w.WriteHeader(res.StatusCode)
		if _, err = w.Write([]byte(res.WriteBuffer.String())); err != nil {
			logErrors = append(logErrors, fmt.Sprintf("eww:\"%s\"", err))
		}

		if res.Err != nil {
			if res.Err.Code != "" {
				logErrors = append(logErrors, fmt.Sprintf("code:\"%s\"", res.Err.Code))
			}
			if res.Err.InternalMessage != "" {
				logErrors = append(logErrors, fmt.Sprintf("err:\"%s\"", res.Err.InternalMessage))
			}
		}

		fields := logrus.Fields{
			"traceId":  traceID,
			"remote":   r.RemoteAddr,
			"status":   res.StatusCode,
			"duration": time.Since(start).Milliseconds(),
			"bytes":    res.Size,
		}
		if timerResults := common.TimeResults(ctx); timerResults != "" {
			fields["timers"] = timerResults
		}
		entry := a.logger.WithFields(fields)
		if len(logErrors) > 0 {
			entry = entry.WithField("errors", strings.Join(logErrors, ","))
		}
		if res.StatusCode >= http.StatusInternalServerError {
			entry.Error(logRequest)
		} else {
			entry.Info(logRequest)
		}
	}
}
