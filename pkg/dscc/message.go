package dscc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultTable is the table id the host uses for the chart's data.
const DefaultTable = "DEFAULT"

// FieldKind distinguishes dimension fields from metric fields.
type FieldKind uint8

const (
	Dimension FieldKind = iota
	Metric
)

func (k FieldKind) String() string {
	if k == Metric {
		return "metric"
	}
	return "dimension"
}

// Field is a column declared by the host. Declared order is significant:
// dimension order defines the ring order of the chart.
type Field struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    string    `json:"type,omitempty"`
	Concept string    `json:"concept,omitempty"`
	Kind    FieldKind `json:"-"`
}

// Fields groups the declared fields by config id.
type Fields struct {
	Dimension []Field `json:"dimension"`
	Metric    []Field `json:"metric"`
}

// TableRecord is one row in columnar form.
type TableRecord struct {
	Dimension []Value `json:"dimension"`
	Metric    []Value `json:"metric"`
}

// StyleEntry is a single style option as configured in the host.
// Value is the user's choice; DefaultValue comes from the chart's config.
type StyleEntry struct {
	Value        any `json:"value,omitempty"`
	DefaultValue any `json:"defaultValue,omitempty"`
}

// InteractionValue is the host's current state for one interaction.
// Type and Data are absent (or the string "undefined") when no filter applies.
type InteractionValue struct {
	Type any             `json:"type,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Interaction is an interaction slot declared by the chart config.
type Interaction struct {
	Value            InteractionValue `json:"value"`
	SupportedActions []string         `json:"supportedActions,omitempty"`
}

// Message is one data snapshot delivered by the host.
type Message struct {
	Tables       map[string][]TableRecord `json:"tables"`
	Fields       Fields                   `json:"fields"`
	Style        map[string]StyleEntry    `json:"style,omitempty"`
	Theme        map[string]any           `json:"theme,omitempty"`
	Interactions map[string]Interaction   `json:"interactions,omitempty"`
}

// Decode reads a Message from r.
func Decode(r io.Reader) (*Message, error) {
	var m Message
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &m, nil
}

// ReadFile decodes a Message stored as JSON at path.
func ReadFile(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Records returns the records of the default table.
func (m *Message) Records() []TableRecord {
	if m == nil || m.Tables == nil {
		return nil
	}
	return m.Tables[DefaultTable]
}

// FieldList returns dimensions followed by metrics, with Kind set. This is
// the order in which record values are zipped.
func (m *Message) FieldList() []Field {
	out := make([]Field, 0, len(m.Fields.Dimension)+len(m.Fields.Metric))
	for _, f := range m.Fields.Dimension {
		f.Kind = Dimension
		out = append(out, f)
	}
	for _, f := range m.Fields.Metric {
		f.Kind = Metric
		out = append(out, f)
	}
	return out
}

// DimensionNames returns the dimension field names in declared order.
func (m *Message) DimensionNames() []string {
	names := make([]string, len(m.Fields.Dimension))
	for i, f := range m.Fields.Dimension {
		names[i] = f.Name
	}
	return names
}

// DimensionIDs returns the dimension field ids in declared order.
func (m *Message) DimensionIDs() []string {
	ids := make([]string, len(m.Fields.Dimension))
	for i, f := range m.Fields.Dimension {
		ids[i] = f.ID
	}
	return ids
}

// MetricName returns the name of the first metric field, or "" if none is
// declared.
func (m *Message) MetricName() string {
	if len(m.Fields.Metric) == 0 {
		return ""
	}
	return m.Fields.Metric[0].Name
}

// Clone returns a deep copy of m suitable for modification.
func (m *Message) Clone() *Message {
	data, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("dscc: clone message: %v", err))
	}
	var out Message
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("dscc: clone message: %v", err))
	}
	return &out
}
