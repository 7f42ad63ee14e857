package layouts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

type badge struct{ name string }

func (b badge) String() string { return b.name }

type level int

func (l level) String() string { return "<b>high</b>" }

func render(format string, args ...any) string {
	var buf bytes.Buffer
	h := NewHTML(&buf)
	h.Rawf(format, args...)
	return buf.String()
}

func TestRawf_EscapesEveryNonNumericArgument(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want string
	}{
		{"string", `<script>`, `<p>&lt;script&gt;</p>`},
		{"named string", label(`"><img>`), `<p>&#34;&gt;&lt;img&gt;</p>`},
		{"stringer", badge{name: `<i>x</i>`}, `<p>&lt;i&gt;x&lt;/i&gt;</p>`},
		{"error", textErr(`a&b`), `<p>a&amp;b</p>`},
		{"numeric stringer", level(3), `<p>&lt;b&gt;high&lt;/b&gt;</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(`<p>%s</p>`, tt.arg))
		})
	}
}

func TestRawf_NumbersKeepTheirVerbs(t *testing.T) {
	assert.Equal(t, `<option value="7">3 of 10, 2.50, true</option>`,
		render(`<option value="%d">%d of %d, %.2f, %t</option>`, 7, 3, int64(10), 2.5, true))
}

func TestHTML_KeepsFirstError(t *testing.T) {
	h := NewHTML(failingWriter{})
	h.Raw("a")
	h.Text("b")
	require.Error(t, h.Err())
}

type textErr string

func (e textErr) Error() string { return string(e) }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }
