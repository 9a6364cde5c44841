package messages

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/casualjim/agentgraph/errs"
	"github.com/go-openapi/strfmt"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var emptyJSON = []byte(`{}`)

// Message is an immutable unit of data carried on a topic.
// Use the constructors; the zero value has no timestamp.
type Message struct {
	data      []byte
	text      string
	number    float64
	createdAt strfmt.DateTime
}

// New creates a message from text. The numeric view is the text parsed as a
// float64 after trimming surrounding whitespace, or NaN when it isn't a number.
func New(text string) Message {
	return Message{
		data:      []byte(text),
		text:      text,
		number:    parseFloat(text),
		createdAt: strfmt.DateTime(time.Now()),
	}
}

// FromBytes creates a message from raw bytes, interpreted as UTF-8 text.
// A nil slice is rejected; an empty one is a valid, empty message.
func FromBytes(b []byte) (Message, error) {
	if b == nil {
		return Message{}, errs.Invalid("message bytes are nil")
	}
	return New(string(b)), nil
}

// FromFloat creates a message from a number, rendered in its shortest
// round-tripping decimal form.
func FromFloat(v float64) Message {
	return New(FormatFloat(v))
}

// FormatFloat renders v the way FromFloat does: shortest decimal form,
// NaN as "NaN" and infinities as "+Inf" and "-Inf".
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Bytes returns a copy of the raw payload.
func (m Message) Bytes() []byte {
	if m.data == nil {
		return []byte{}
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Text returns the text view.
func (m Message) Text() string {
	return m.text
}

// Float returns the numeric view, NaN if the text is not a number.
func (m Message) Float() float64 {
	return m.number
}

// IsNumeric reports whether the numeric view holds a number.
func (m Message) IsNumeric() bool {
	return !math.IsNaN(m.number)
}

// CreatedAt returns the construction time.
func (m Message) CreatedAt() time.Time {
	return time.Time(m.createdAt)
}

func (m Message) String() string {
	return m.text
}

// Equal reports whether both messages carry the same payload and timestamp.
func (m Message) Equal(other Message) bool {
	return m.text == other.text && time.Time(m.createdAt).Equal(time.Time(other.createdAt))
}

// MarshalJSON renders the message as {"text":..,"number":..,"created_at":..}.
// The number is omitted when the text is not numeric.
func (m Message) MarshalJSON() ([]byte, error) {
	result := emptyJSON

	var err error
	result, err = sjson.SetBytes(result, "text", m.text)
	if err != nil {
		return nil, err
	}

	if m.IsNumeric() && !math.IsInf(m.number, 0) {
		result, err = sjson.SetBytes(result, "number", m.number)
		if err != nil {
			return nil, err
		}
	}

	result, err = sjson.SetBytes(result, "created_at", m.createdAt.String())
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UnmarshalJSON accepts the object form produced by MarshalJSON, as well as a
// bare JSON string or number which is treated as the message text.
func (m *Message) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errs.Invalid("message is not valid JSON")
	}

	res := gjson.ParseBytes(data)
	switch res.Type {
	case gjson.String:
		*m = New(res.Str)
		return nil
	case gjson.Number:
		*m = New(res.Raw)
		return nil
	case gjson.JSON:
		if !res.IsObject() {
			return errs.Invalid("message must be an object, string or number")
		}
	default:
		return errs.Invalid("message must be an object, string or number")
	}

	text := res.Get("text")
	if !text.Exists() {
		return errs.Invalid("message object has no text field")
	}
	msg := New(text.String())

	if ts := res.Get("created_at"); ts.Exists() && ts.Str != "" {
		dt, err := strfmt.ParseDateTime(ts.Str)
		if err != nil {
			return errs.Invalid("message created_at: %v", err)
		}
		msg.createdAt = dt
	}

	*m = msg
	return nil
}
