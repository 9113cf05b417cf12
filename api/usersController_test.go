package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidepool-org/glucose-insights/schema"
)

func reading(userID string, deviceID string, timestamp string, value int) schema.Reading {
	at, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		panic(err)
	}
	return schema.Reading{UserID: userID, DeviceID: deviceID, Timestamp: at, GlucoseValue: value, Unit: "mg/dL"}
}

func seedReadings() {
	readingsRepository.Readings = []schema.Reading{
		reading("user1", "devB", "2024-03-02T08:00:00Z", 90),
		reading("user1", "devA", "2024-03-02T12:00:00Z", 110),
		reading("user1", "devA", "2024-03-02T18:00:00Z", 100),
		reading("user1", "devA", "2024-03-03T07:30:00Z", 120),
		// outside of the default windows
		reading("user1", "devA", "2024-01-20T07:30:00Z", 300),
		reading("user2", "devC", "2024-03-02T08:00:00Z", 250),
	}
}

func TestGetUser(t *testing.T) {
	resetMocks()
	birth := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)
	readingsRepository.Users["user1"] = schema.UserProfile{
		ID: "user1", FirstName: "Ada", LastName: "Lovelace", DateOfBirth: &birth, Email: "ada@example.com", PhoneNumber: "+33100000000",
	}

	response := serve(api, "/users/user1", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"id":"user1","firstName":"Ada","lastName":"Lovelace","dateOfBirth":"1990-05-17","email":"ada@example.com","phoneNumber":"+33100000000"}`, response.Body.String())
}

func TestGetUser_NotFound(t *testing.T) {
	resetMocks()
	response := serve(api, "/users/unknown", map[string]string{"x-tidepool-trace-session": validTraceID})

	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.JSONEq(t, `{"status":404,"id":"`+validTraceID+`","code":"user_not_found","message":"no user for specified id"}`, response.Body.String())
}

func TestGetUser_StoreError(t *testing.T) {
	resetMocks()
	readingsRepository.Err = errors.New("connection refused")

	response := serve(api, "/users/user1", nil)

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Contains(t, response.Body.String(), `"code":"data_store_error"`)
	assert.NotContains(t, response.Body.String(), "connection refused")
}

func TestGetDailyMetrics_DefaultWindow(t *testing.T) {
	resetMocks()
	seedReadings()

	response := serve(api, "/users/graph/user1", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data":[
		{"day":"2024-03-02","min":90,"max":110,"average":100.0},
		{"day":"2024-03-03","min":120,"max":120,"average":120.0}
	],"errorResponse":null}`, response.Body.String())
	assert.Contains(t, response.Body.String(), `"average":100.0`)
	require.Len(t, readingsRepository.Windows, 1)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), readingsRepository.Windows[0].Start)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), readingsRepository.Windows[0].End)
}

func TestGetDailyMetrics_ExplicitWindow(t *testing.T) {
	resetMocks()
	seedReadings()

	response := serve(api, "/users/graph/user1?startDate=2024-03-03T00:00:00&endDate=2024-03-10T00:00:00", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data":[{"day":"2024-03-03","min":120,"max":120,"average":120.0}],"errorResponse":null}`, response.Body.String())
}

func TestGetDailyMetrics_NoReadings(t *testing.T) {
	resetMocks()

	response := serve(api, "/users/graph/user1", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data":[],"errorResponse":null}`, response.Body.String())
}

func TestGetDailyMetrics_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected map[string]string
	}{
		{
			name:     "start without end",
			query:    "?startDate=2024-03-01T00:00:00",
			expected: map[string]string{"Start date is provided, but no end date": "FIELD_NULL"},
		},
		{
			name:     "end without start",
			query:    "?endDate=2024-03-01T00:00:00",
			expected: map[string]string{"End date is provided, but no start date": "FIELD_NULL"},
		},
		{
			name:     "too old",
			query:    "?startDate=2023-11-01T00:00:00&endDate=2023-11-10T00:00:00",
			expected: map[string]string{"The provided time span is older than 90 days": "INVALID_FIELD_VALUE"},
		},
		{
			name:     "inverted",
			query:    "?startDate=2024-03-10T00:00:00&endDate=2024-03-01T00:00:00",
			expected: map[string]string{"Start date is after end date": "INVALID_FIELD_VALUE"},
		},
		{
			name:     "bad format",
			query:    "?startDate=2024-03-01&endDate=2024-03-10T00:00:00",
			expected: map[string]string{"Start date has an invalid format": "INVALID_FIELD_VALUE"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resetMocks()
			response := serve(api, "/users/graph/user1"+tc.query, nil)

			assert.Equal(t, http.StatusBadRequest, response.Code)
			var body struct {
				Data          interface{}       `json:"data"`
				ErrorResponse map[string]string `json:"errorResponse"`
			}
			require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
			assert.Nil(t, body.Data)
			assert.Equal(t, tc.expected, body.ErrorResponse)
			assert.Empty(t, readingsRepository.Windows, "the store must not be queried")
		})
	}
}

func TestGetDailyMetrics_StoreError(t *testing.T) {
	resetMocks()
	readingsRepository.Err = errors.New("connection refused")

	response := serve(api, "/users/graph/user1", map[string]string{"x-tidepool-trace-session": validTraceID})

	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.JSONEq(t, `{"data":null,"errorResponse":{"status":500,"id":"`+validTraceID+`","code":"data_store_error","message":"internal server error"}}`, response.Body.String())
	entry := logHook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Contains(t, entry.Data["errors"], "connection refused")
	}
}

func TestGetCalendar(t *testing.T) {
	resetMocks()
	seedReadings()

	response := serve(api, "/users/calendar/user1", nil)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data":[
		{"date":"2024-03-02","entries":[{"deviceId":"devA","numOfReadings":2},{"deviceId":"devB","numOfReadings":1}]},
		{"date":"2024-03-03","entries":[{"deviceId":"devA","numOfReadings":1}]}
	],"errorResponse":null}`, response.Body.String())
}
