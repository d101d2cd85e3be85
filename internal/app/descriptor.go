package app

// Descriptor is the capability description of one app sent to the core at
// registration: intents, their sample phrases and slots, and the enumerated
// legal values of every finite slot type. It is rebuilt fresh for each
// registration attempt and never persisted.
type Descriptor struct {
	InvocationName string             `json:"invocationName"`
	Intents        []IntentDescriptor `json:"intents"`
	Types          []TypeDescriptor   `json:"types"`
}

// IntentDescriptor describes one intent: sample phrases verbatim and slots in
// declaration order.
type IntentDescriptor struct {
	Name    string           `json:"name"`
	Samples []string         `json:"samples"`
	Slots   []SlotDescriptor `json:"slots"`
}

// SlotDescriptor maps a slot name to its data type name.
type SlotDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypeDescriptor enumerates the legal values of one finite data type.
type TypeDescriptor struct {
	Name   string      `json:"name"`
	Values []TypeValue `json:"values"`
}

// TypeValue is one legal term of a finite type.
type TypeValue struct {
	ID   string        `json:"id"`
	Name TypeValueName `json:"name"`
}

// TypeValueName wraps the display value of a term.
type TypeValueName struct {
	Value string `json:"value"`
}

// BuildDescriptor derives the capability descriptor for an app. The output is
// deterministic for a fixed app graph: intents and slots keep declaration
// order, and the types list holds each finite type once, in first-reference
// order, deduplicated by identity rather than by display name so two distinct
// types sharing a name are not merged.
func BuildDescriptor(a *App) Descriptor {
	d := Descriptor{
		InvocationName: a.ID,
		Intents:        make([]IntentDescriptor, 0, len(a.Intents)),
		Types:          []TypeDescriptor{},
	}

	seen := make(map[DataType]bool)
	for _, in := range a.Intents {
		id := IntentDescriptor{
			Name:    in.ID,
			Samples: append([]string(nil), in.Samples...),
			Slots:   make([]SlotDescriptor, 0, len(in.Slots)),
		}
		for _, s := range in.Slots {
			id.Slots = append(id.Slots, SlotDescriptor{
				Name: s.Name,
				Type: s.Type.TypeName(),
			})
			ft, finite := s.Type.(FiniteType)
			if !finite || seen[s.Type] {
				continue
			}
			seen[s.Type] = true
			td := TypeDescriptor{Name: ft.TypeName()}
			for _, term := range ft.Values() {
				td.Values = append(td.Values, TypeValue{
					ID:   term,
					Name: TypeValueName{Value: term},
				})
			}
			d.Types = append(d.Types, td)
		}
		d.Intents = append(d.Intents, id)
	}
	return d
}
