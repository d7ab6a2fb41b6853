package level

import "encoding/json"

// Level is the severity attached to a report. The zero value is ERROR.
type Level int

const (
	ERROR Level = iota
	CRITICAL
	WARNING
	INFO
	DEBUG
)

var levelNames = map[Level]string{
	CRITICAL: "critical",
	ERROR:    "error",
	WARNING:  "warning",
	INFO:     "info",
	DEBUG:    "debug",
}

// Parse maps a severity string to a Level. Anything that is not one of the
// canonical lowercase names falls back to ERROR.
func Parse(s string) Level {
	switch s {
	case "critical":
		return CRITICAL
	case "warning":
		return WARNING
	case "info":
		return INFO
	case "debug":
		return DEBUG
	default:
		return ERROR
	}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return levelNames[ERROR]
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = Parse(s)
	return nil
}

// Decode lets envconfig read a Level straight from the environment.
func (l *Level) Decode(value string) error {
	*l = Parse(value)
	return nil
}
