package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// date accepts "2006-01-02" or a full RFC 3339 timestamp, as clients send both.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := parseDate(value)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return parsed.UTC(), nil
}

func parseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// idParam reads a uuid path parameter in canonical form. A value that is not
// a uuid cannot name any row, so it is answered with 404.
func idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return "", false
	}
	return id.String(), true
}

// optionalID validates an optional uuid body field. Blank means absent.
func optionalID(value *string) (*string, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, true
	}
	id, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		return nil, false
	}
	canonical := id.String()
	return &canonical, true
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid int %q", value)
	}
	return parsed, nil
}

// optionalInt records whether the field was present at all; null clears.
type optionalInt struct {
	Set   bool
	Value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = &value
	return nil
}

// optionalDecimal records whether the field was present; null or a blank
// string clears the value.
type optionalDecimal struct {
	Set   bool
	Value *decimal.Decimal
}

func (o *optionalDecimal) UnmarshalJSON(data []byte) error {
	o.Set = true
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		o.Value = nil
		return nil
	}

	var value decimal.Decimal
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = &value
	return nil
}

func (o optionalDecimal) nullDecimal() decimal.NullDecimal {
	if o.Value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*o.Value)
}
