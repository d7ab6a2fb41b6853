package trace

import (
	"encoding/json"
	"testing"

	"rollbarreporter/src/frame"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	tr := New("", "boom", "")
	require.Equal(t, DefaultClass, tr.Exception.Class)
	require.Equal(t, "boom", tr.Exception.Description)

	out, err := json.Marshal(tr)
	require.NoError(t, err)
	require.JSONEq(t, `{"frames":[],"exception":{"class":"Generic","message":"boom","description":"boom"}}`, string(out))
}

func TestAppendKeepsOrder(t *testing.T) {
	tr := New("*errors.errorString", "boom", "details")
	tr.Append(frame.New().WithFileName("a.go").Build())
	tr.Append(frame.New().WithFileName("b.go").Build(), frame.New().WithFileName("c.go").Build())

	names := make([]string, 0, len(tr.Frames))
	for _, f := range tr.Frames {
		names = append(names, f.FileName)
	}
	require.Equal(t, []string{"a.go", "b.go", "c.go"}, names)
	require.Equal(t, "details", tr.Exception.Description)
}
