package utils

import (
	"reflect"
	"strings"
	"time"
)

// MeetTimeLayout is the only accepted wire format for room meet times.
const MeetTimeLayout = "2006-01-02 15:04:05"

// TimeDefault is the reserved input meaning "no constraint" wherever a
// time, location, menu or keyword filter is accepted.
const TimeDefault = "default"

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// ParseMeetTime parses the fixed meet-time pattern into epoch millis.
// The "default" sentinel parses to 0 (unconstrained).
func ParseMeetTime(s string) (int64, error) {
	if s == TimeDefault {
		return 0, nil
	}
	t, err := time.ParseInLocation(MeetTimeLayout, s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// FormatMeetTime is the inverse of ParseMeetTime; 0 renders as "default".
func FormatMeetTime(millis int64) string {
	if millis == 0 {
		return TimeDefault
	}
	return time.UnixMilli(millis).
		UTC().
		Format(MeetTimeLayout)
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
