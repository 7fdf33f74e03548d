// importer/validate.go
package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gewnthar/meetsync/models"
)

// Field coercion helpers. Every failure here is a *ValidationError carrying
// the field name and the whole raw record; callers treat anything else as an
// engine defect.

func getKey(r RawRecord, key string) (string, error) {
	v, ok := r.Get(key)
	if !ok {
		return "", &ValidationError{Kind: MissingField, Field: key, Record: r}
	}
	return v, nil
}

func getRequiredStr(r RawRecord, key string) (string, error) {
	v, err := getKey(r, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", &ValidationError{Kind: EmptyValue, Field: key, Record: r}
	}
	return v, nil
}

func getInt(r RawRecord, key string) (int64, error) {
	v, err := getKey(r, key)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if convErr != nil {
		return 0, &ValidationError{Kind: MalformedField, Field: key, Record: r}
	}
	return n, nil
}

// getIntChoice coerces an integer restricted to an enumerated set of values.
func getIntChoice(r RawRecord, key string, validChoices []int) (int, error) {
	n, err := getInt(r, key)
	if err != nil {
		return 0, err
	}
	for _, c := range validChoices {
		if int(n) == c {
			return int(n), nil
		}
	}
	return 0, &ValidationError{Kind: InvalidChoice, Field: key, Record: r}
}

func getDecimal(r RawRecord, key string) (decimal.Decimal, error) {
	v, err := getKey(r, key)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, convErr := decimal.NewFromString(strings.TrimSpace(v))
	if convErr != nil {
		return decimal.Decimal{}, &ValidationError{Kind: MalformedField, Field: key, Record: r}
	}
	return d, nil
}

// getTimeOfDay coerces a start-time field. Root servers publish either a bare
// integer (minutes since midnight) or an explicit H:MM string; both shapes
// normalize to hours and minutes. "90" and "1:30" are the same time.
func getTimeOfDay(r RawRecord, key string) (models.TimeOfDay, error) {
	v, err := getKey(r, key)
	if err != nil {
		return models.TimeOfDay{}, err
	}
	malformed := &ValidationError{Kind: MalformedField, Field: key, Record: r}

	if !strings.Contains(v, ":") {
		minutes, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil || minutes < 0 {
			return models.TimeOfDay{}, malformed
		}
		t := models.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
		if t.Hour > 23 {
			return models.TimeOfDay{}, malformed
		}
		return t, nil
	}

	parts := strings.Split(v, ":")
	if len(parts) > 3 {
		return models.TimeOfDay{}, malformed
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(p))
		if convErr != nil || n < 0 {
			return models.TimeOfDay{}, malformed
		}
		nums[i] = n
	}
	t := models.TimeOfDay{Hour: nums[0]}
	if len(nums) > 1 {
		t.Minute = nums[1]
	}
	// Trailing seconds are accepted but dropped; minute precision is all the
	// store keeps.
	if t.Hour > 23 || t.Minute > 59 || (len(nums) == 3 && nums[2] > 59) {
		return models.TimeOfDay{}, malformed
	}
	return t, nil
}

// getDuration coerces an elapsed-time field using the same dual-format rule as
// getTimeOfDay, but the result is a duration rather than a wall-clock time, so
// hours are unbounded.
func getDuration(r RawRecord, key string) (time.Duration, error) {
	v, err := getKey(r, key)
	if err != nil {
		return 0, err
	}
	malformed := &ValidationError{Kind: MalformedField, Field: key, Record: r}

	if !strings.Contains(v, ":") {
		minutes, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil || minutes < 0 {
			return 0, malformed
		}
		return time.Duration(minutes/60)*time.Hour + time.Duration(minutes%60)*time.Minute, nil
	}

	parts := strings.Split(v, ":")
	if len(parts) < 2 {
		return 0, malformed
	}
	hours, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errH != nil || errM != nil || hours < 0 || minutes < 0 || minutes > 59 {
		return 0, malformed
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// optionalStr returns a pointer to the raw value when the key is present, nil
// when absent. Presence with an empty value stays a concrete (empty) value so
// the diff core can tell the two states apart.
func optionalStr(r RawRecord, key string) *string {
	if v, ok := r.Get(key); ok {
		return &v
	}
	return nil
}
