package models

// Meeting is one scheduled meeting read from a schedule source.
type Meeting struct {
	Name          string     `json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`
	Recurrence    Recurrence `json:"recurrence" yaml:"recurrence" toml:"recurrence" mapstructure:"recurrence"`
	Start         TimeOfDay  `json:"start" yaml:"start" toml:"start" mapstructure:"start"`
	End           TimeOfDay  `json:"end" yaml:"end" toml:"end" mapstructure:"end"`
	MeetingNumber string     `json:"meeting_number" yaml:"meeting_number" toml:"meeting_number" mapstructure:"meeting_number" validate:"required"`
	Passcode      string     `json:"passcode,omitempty" yaml:"passcode,omitempty" toml:"passcode,omitempty" mapstructure:"passcode"`
}

// RequiredFields lists the document keys every meeting record must carry.
var RequiredFields = []string{"name", "recurrence", "start", "end", "meeting_number"}

func (m Meeting) String() string {
	return m.Name
}

// HasInvertedWindow reports a start after the end; such a meeting never matches.
func (m Meeting) HasInvertedWindow() bool {
	return m.Start > m.End
}
