package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/borgmon/zooom/pkg/models"
)

// documentKey holds the meeting list in formats whose root must be a table.
const documentKey = "meetings"

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("line %d: %w", lineAt(data, syntaxErr.Offset), err)
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the top-level value")
	}
	return doc, nil
}

func decodeYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeTOML(data []byte) (any, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

// recordsOf accepts either a bare list of meetings or a table holding the
// list under "meetings".
func recordsOf(doc any) ([]any, error) {
	switch val := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return val, nil
	case []map[string]any:
		records := make([]any, len(val))
		for i, r := range val {
			records[i] = r
		}
		return records, nil
	case map[string]any:
		if len(val) == 0 {
			return nil, nil
		}
		list, ok := val[documentKey]
		if !ok {
			return nil, fmt.Errorf("expected a list of meetings or a %q key", documentKey)
		}
		if len(val) > 1 {
			return nil, fmt.Errorf("unexpected keys next to %q", documentKey)
		}
		if _, nested := list.(map[string]any); nested {
			return nil, fmt.Errorf("%q must be a list", documentKey)
		}
		return recordsOf(list)
	default:
		return nil, fmt.Errorf("expected a list of meetings, got %T", doc)
	}
}

var (
	recurrenceType = reflect.TypeOf(models.Recurrence{})
	timeOfDayType  = reflect.TypeOf(models.TimeOfDay(0))
)

// meetingHook converts the loosely typed values produced by the format
// decoders into the model's recurrence and clock types.
func meetingHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case recurrenceType:
		return models.ParseRecurrence(data)
	case timeOfDayType:
		switch val := data.(type) {
		case string:
			return models.ParseTimeOfDay(val)
		case time.Time:
			return models.ClockOf(val), nil
		case models.TimeOfDay:
			return val, nil
		default:
			return nil, fmt.Errorf("expected a time of day like \"09:30\", got %T", data)
		}
	}
	return data, nil
}

type recordDecoder struct {
	validate *validator.Validate
}

func newRecordDecoder() *recordDecoder {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
	})
	return &recordDecoder{validate: v}
}

func (d *recordDecoder) decodeAll(doc any) ([]models.Meeting, error) {
	records, err := recordsOf(doc)
	if err != nil {
		return nil, err
	}

	meetings := make([]models.Meeting, 0, len(records))
	for i, record := range records {
		m, err := d.decode(record)
		if err != nil {
			return nil, fmt.Errorf("meeting #%d%s: %w", i+1, recordLabel(record), err)
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}

// opaqueFields are identifiers that must be written as strings. A number
// has already been reinterpreted by the format decoder (leading zeros,
// octal), so converting it back would change the value.
var opaqueFields = []string{"meeting_number", "passcode"}

func checkOpaqueFields(record any) error {
	table, ok := record.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range opaqueFields {
		val, ok := table[key]
		if !ok || val == nil {
			continue
		}
		if _, isString := val.(string); !isString {
			return fmt.Errorf("field %q must be a string, quote the value", key)
		}
	}
	return nil
}

func (d *recordDecoder) decode(record any) (models.Meeting, error) {
	var m models.Meeting
	var md mapstructure.Metadata

	if err := checkOpaqueFields(record); err != nil {
		return m, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  meetingHook,
		ErrorUnused: true,
		Metadata:    &md,
		Result:      &m,
	})
	if err != nil {
		return m, err
	}
	if err := dec.Decode(record); err != nil {
		return m, err
	}

	for _, key := range models.RequiredFields {
		if slices.Contains(md.Unset, key) {
			return m, fmt.Errorf("missing field %q", key)
		}
	}

	if err := d.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return m, fmt.Errorf("field %q failed %q validation", verrs[0].Field(), verrs[0].Tag())
		}
		return m, err
	}

	return m, m.Recurrence.Validate()
}

func recordLabel(record any) string {
	if table, ok := record.(map[string]any); ok {
		if name, ok := table["name"].(string); ok && name != "" {
			return fmt.Sprintf(" (%s)", name)
		}
	}
	return ""
}

func encodeJSON(w io.Writer, meetings []models.Meeting) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meetings)
}

func encodeYAML(w io.Writer, meetings []models.Meeting) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(meetings); err != nil {
		return err
	}
	return enc.Close()
}

func encodeTOML(w io.Writer, meetings []models.Meeting) error {
	doc := struct {
		Meetings []models.Meeting `toml:"meetings"`
	}{Meetings: meetings}
	return toml.NewEncoder(w).Encode(doc)
}
