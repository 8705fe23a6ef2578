package store

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/calendar"
	"github.com/borgmon/zooom/pkg/models"
)

// Format decodes and encodes one schedule file syntax.
type Format struct {
	Name       string
	Extensions []string

	decode func(s *ScheduleStore, data []byte) ([]models.Meeting, error)
	encode func(s *ScheduleStore, w io.Writer, meetings []models.Meeting) error
}

func documentFormat(name string, parse func([]byte) (any, error), write func(io.Writer, []models.Meeting) error, exts ...string) Format {
	return Format{
		Name:       name,
		Extensions: exts,
		decode: func(s *ScheduleStore, data []byte) ([]models.Meeting, error) {
			doc, err := parse(data)
			if err != nil {
				return nil, err
			}
			return s.records.decodeAll(doc)
		},
		encode: func(_ *ScheduleStore, w io.Writer, meetings []models.Meeting) error {
			return write(w, meetings)
		},
	}
}

// Formats lists every supported schedule syntax. Extensions match exactly,
// case included.
var Formats = []Format{
	documentFormat("json", decodeJSON, encodeJSON, "json"),
	documentFormat("toml", decodeTOML, encodeTOML, "toml"),
	documentFormat("yaml", decodeYAML, encodeYAML, "yaml", "yml"),
	{
		Name:       "ical",
		Extensions: []string{"ics"},
		decode: func(s *ScheduleStore, data []byte) ([]models.Meeting, error) {
			return calendar.DecodeMeetings(s.log, bytes.NewReader(data))
		},
		encode: func(s *ScheduleStore, w io.Writer, meetings []models.Meeting) error {
			return calendar.EncodeMeetings(w, meetings, s.now())
		},
	},
}

// FormatFor picks the format from the path's extension.
func FormatFor(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, f := range Formats {
		for _, candidate := range f.Extensions {
			if candidate == ext {
				return f, nil
			}
		}
	}
	return Format{}, &LoadError{Path: path, Kind: ErrFormatNotSupported}
}

// ScheduleStore reads and writes schedule files.
type ScheduleStore struct {
	log     *zap.Logger
	records *recordDecoder
	now     func() time.Time
}

// NewScheduleStore creates a new ScheduleStore instance
func NewScheduleStore(log *zap.Logger) *ScheduleStore {
	return &ScheduleStore{
		log:     log,
		records: newRecordDecoder(),
		now:     time.Now,
	}
}

// Load reads every meeting from one schedule file. Decoding is all or
// nothing: on error no meetings are returned.
func (s *ScheduleStore) Load(path string) ([]models.Meeting, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format.Name, Kind: ErrRead, Err: err}
	}

	// A blank file is an empty schedule in every format.
	meetings := []models.Meeting{}
	if len(bytes.TrimSpace(data)) > 0 {
		meetings, err = format.decode(s, data)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Format: format.Name, Kind: ErrDecode, Err: err}
	}

	for _, m := range meetings {
		if m.HasInvertedWindow() {
			s.log.Warn("meeting starts after it ends and will never match",
				zap.String("path", path),
				zap.String("meeting", m.Name),
				zap.Stringer("start", m.Start),
				zap.Stringer("end", m.End))
		}
	}

	s.log.Info("schedule loaded",
		zap.String("path", path),
		zap.String("format", format.Name),
		zap.Int("meetings", len(meetings)))
	return meetings, nil
}

// LoadAll concatenates the meetings of every source in order. The first
// failing source aborts the whole load.
func (s *ScheduleStore) LoadAll(paths []string) ([]models.Meeting, error) {
	pool := []models.Meeting{}
	for _, path := range paths {
		meetings, err := s.Load(path)
		if err != nil {
			return nil, err
		}
		pool = append(pool, meetings...)
	}
	return pool, nil
}

// Save writes meetings to path in the format chosen by its extension.
func (s *ScheduleStore) Save(path string, meetings []models.Meeting) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := format.encode(s, &buf, meetings); err != nil {
		return &LoadError{Path: path, Format: format.Name, Kind: ErrEncode, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &LoadError{Path: path, Format: format.Name, Kind: ErrEncode, Err: err}
	}

	s.log.Info("schedule saved",
		zap.String("path", path),
		zap.String("format", format.Name),
		zap.Int("meetings", len(meetings)))
	return nil
}
