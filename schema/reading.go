package schema

import (
	"encoding/json"
	"time"
)

type (
	// Reading a glucose value sent by a device, as stored in the deviceReadings collection
	Reading struct {
		ID           string    `json:"id" bson:"_id,omitempty"`
		UserID       string    `json:"userId" bson:"userId"`
		DeviceID     string    `json:"deviceId" bson:"deviceId"`
		Timestamp    time.Time `json:"timestamp" bson:"timestamp"`
		GlucoseValue int       `json:"glucoseValue" bson:"glucoseValue"`
		Unit         string    `json:"unit" bson:"unit"`
	}

	// UserProfile as stored in the users collection
	UserProfile struct {
		ID          string     `json:"id" bson:"_id,omitempty"`
		FirstName   string     `json:"firstName" bson:"firstName"`
		LastName    string     `json:"lastName" bson:"lastName"`
		DateOfBirth *time.Time `json:"dateOfBirth" bson:"dateOfBirth,omitempty"`
		Email       string     `json:"email" bson:"email"`
		PhoneNumber string     `json:"phoneNumber" bson:"phoneNumber"`
	}
)

// Day the UTC calendar day of the reading
func (r Reading) Day() string {
	return DayKey(r.Timestamp)
}

// MarshalJSON writes the date of birth as a calendar date
func (u UserProfile) MarshalJSON() ([]byte, error) {
	type profileAlias UserProfile
	out := struct {
		profileAlias
		DateOfBirth *string `json:"dateOfBirth"`
	}{profileAlias: profileAlias(u)}
	if u.DateOfBirth != nil {
		day := DayKey(*u.DateOfBirth)
		out.DateOfBirth = &day
	}
	return json.Marshal(out)
}
