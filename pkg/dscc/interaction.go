package dscc

import (
	"bytes"
	"encoding/json"
)

// DefaultInteractionID is the fixed interaction slot this chart contributes
// to the host's cross-chart filter state.
const DefaultInteractionID = "sunburstFilter"

// InteractionType is the action carried by a [FilterEvent].
type InteractionType string

const (
	InteractionFilter InteractionType = "FILTER"
	InteractionReset  InteractionType = "RESET"
)

// FilterSelection is the payload of a filter: the concept (field) ids and,
// for each selected item, one value per concept.
type FilterSelection struct {
	Concepts []string  `json:"concepts"`
	Values   [][]Value `json:"values"`
}

// Path returns the first selected value path, or nil if nothing is selected.
func (s *FilterSelection) Path() []Value {
	if s == nil || len(s.Values) == 0 {
		return nil
	}
	return s.Values[0]
}

// FilterEvent is emitted toward the host when the user clicks an arc.
type FilterEvent struct {
	InteractionID string           `json:"interactionId"`
	Type          InteractionType  `json:"type"`
	Data          *FilterSelection `json:"data,omitempty"`
}

// NewFilterEvent builds a FILTER event selecting one node path. concepts holds
// the dimension ids of the levels covered by path.
func NewFilterEvent(interactionID string, concepts []string, path []Value) FilterEvent {
	n := min(len(concepts), len(path))
	return FilterEvent{
		InteractionID: interactionID,
		Type:          InteractionFilter,
		Data: &FilterSelection{
			Concepts: append([]string(nil), concepts[:n]...),
			Values:   [][]Value{append([]Value(nil), path[:n]...)},
		},
	}
}

// NewResetEvent builds an event that clears the chart's filter.
func NewResetEvent(interactionID string) FilterEvent {
	return FilterEvent{InteractionID: interactionID, Type: InteractionReset}
}

// InteractionState is the filter state read once per render pass.
type InteractionState struct {
	// FilterActive is set when the host reports a current selection.
	FilterActive bool
	// FilterEnabled is set when the host reports an interaction type, which
	// means filtering is on for this chart. Transitions are disabled then.
	FilterEnabled bool
	// Selection is the decoded selection when FilterActive is set.
	Selection *FilterSelection
}

// InteractionState decodes the state of the interaction slot id. A missing
// slot, a missing field or the literal string "undefined" all read as unset.
func (m *Message) InteractionState(id string) InteractionState {
	var st InteractionState
	if m == nil || m.Interactions == nil {
		return st
	}
	in, ok := m.Interactions[id]
	if !ok {
		return st
	}

	st.FilterEnabled = isDefined(in.Value.Type)

	data := bytes.TrimSpace(in.Value.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`"undefined"`)) {
		return st
	}
	st.FilterActive = true

	var sel FilterSelection
	if err := json.Unmarshal(data, &sel); err == nil {
		st.Selection = &sel
	}
	return st
}

// isDefined reports whether x carries a value. The empty string also counts
// as unset, so a type of "" leaves filtering disabled.
func isDefined(x any) bool {
	switch t := x.(type) {
	case nil:
		return false
	case string:
		return t != "" && t != "undefined"
	default:
		return true
	}
}

// WithSelection returns a copy of m whose interaction slot reflects evt, the
// way the host echoes a filter back on the next data change. A reset clears
// the selection but leaves filtering enabled.
func (m *Message) WithSelection(evt FilterEvent) *Message {
	out := m.Clone()
	if out.Interactions == nil {
		out.Interactions = make(map[string]Interaction)
	}
	in := out.Interactions[evt.InteractionID]
	if evt.Type == InteractionReset || evt.Data == nil {
		in.Value = InteractionValue{Type: string(InteractionFilter)}
	} else {
		data, _ := json.Marshal(evt.Data)
		in.Value = InteractionValue{Type: string(evt.Type), Data: data}
	}
	out.Interactions[evt.InteractionID] = in
	return out
}

// WithoutInteractions returns a copy of m with all interaction state removed.
// Local mode uses it since there is no host to own a filter.
func (m *Message) WithoutInteractions() *Message {
	out := m.Clone()
	out.Interactions = nil
	return out
}
