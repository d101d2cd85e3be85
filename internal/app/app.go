// Package app defines the intent model the bridge exposes over REST: apps,
// their intents, slot data types, and the per-call invoke context.
//
// The bridge never constructs intents itself — app authors hand it a fully
// built App graph at startup and the bridge treats every Runner as an opaque
// capability it calls.
package app

import (
	"context"
	"fmt"
	"strings"
)

// DataType describes the shape of one intent slot. It belongs to the app;
// the bridge only reads it when building the capability descriptor.
type DataType interface {
	TypeName() string
}

// FiniteType is a DataType whose legal values are fully enumerable. Only
// finite types contribute value lists to the capability descriptor.
type FiniteType interface {
	DataType
	Values() []string
}

// EnumType is the standard finite data type: a named, ordered list of terms.
type EnumType struct {
	Name  string
	Terms []string
}

func (t *EnumType) TypeName() string { return t.Name }
func (t *EnumType) Values() []string { return t.Terms }

// FreeText is a non-finite data type for slots that accept arbitrary input.
type FreeText struct {
	Name string
}

func (t *FreeText) TypeName() string { return t.Name }

// Slot is one named parameter of an intent. Slots are declared as an ordered
// slice so the declaration order survives into the descriptor.
type Slot struct {
	Name string
	Type DataType
}

// Call carries the per-request invoke context into a Runner. Language is the
// response language negotiated for this one call — it is never shared between
// requests.
type Call struct {
	// Language is a BCP 47 tag selected from the app's declared languages,
	// or the configured default when nothing matched.
	Language string
	// Apps is the read-only registry of everything loaded at startup.
	Apps *Registry
}

// Runner is the executable behavior of an intent: arguments in, response
// text or an error out.
type Runner interface {
	Run(ctx context.Context, args map[string]any, call *Call) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, args map[string]any, call *Call) (string, error)

func (f RunnerFunc) Run(ctx context.Context, args map[string]any, call *Call) (string, error) {
	return f(ctx, args, call)
}

// Intent is a named, parameterized user command with an executable behavior.
type Intent struct {
	ID      string
	Samples []string
	Slots   []Slot
	Runner  Runner
}

// App is a bundle of intents representing one voice-assistant skill.
type App struct {
	ID string
	// Intents in declaration order. IDs must be unique within the app.
	Intents []*Intent
	// Languages the app can respond in, as BCP 47 tags.
	Languages []string
}

// Intent returns the app's intent with the given ID.
func (a *App) Intent(id string) (*Intent, bool) {
	for _, in := range a.Intents {
		if in.ID == id {
			return in, true
		}
	}
	return nil, false
}

// Registry holds the apps loaded at startup. It is read-only after New —
// adding an app requires a restart and re-registration.
type Registry struct {
	apps []*App
	byID map[string]*App
}

// NewRegistry validates the given apps and builds the registry.
func NewRegistry(apps ...*App) (*Registry, error) {
	r := &Registry{byID: make(map[string]*App, len(apps))}
	for _, a := range apps {
		if err := validateApp(a); err != nil {
			return nil, err
		}
		if _, dup := r.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate app id %q", a.ID)
		}
		r.byID[a.ID] = a
		r.apps = append(r.apps, a)
	}
	return r, nil
}

// Apps returns the loaded apps in registration order.
func (r *Registry) Apps() []*App { return r.apps }

// App returns the app with the given ID.
func (r *Registry) App(id string) (*App, bool) {
	a, ok := r.byID[id]
	return a, ok
}

func validateApp(a *App) error {
	if a == nil {
		return fmt.Errorf("nil app")
	}
	if a.ID == "" {
		return fmt.Errorf("app missing id")
	}
	// IDs become URL path segments, one route per (app, intent) pair.
	if strings.Contains(a.ID, "/") {
		return fmt.Errorf("app id %q may not contain '/'", a.ID)
	}
	if len(a.Intents) == 0 {
		return fmt.Errorf("app %s declares no intents", a.ID)
	}
	seen := make(map[string]bool, len(a.Intents))
	for _, in := range a.Intents {
		if in.ID == "" {
			return fmt.Errorf("app %s has an intent without an id", a.ID)
		}
		if strings.Contains(in.ID, "/") {
			return fmt.Errorf("intent id %q may not contain '/'", in.ID)
		}
		if seen[in.ID] {
			return fmt.Errorf("app %s declares intent %q twice", a.ID, in.ID)
		}
		seen[in.ID] = true
		if in.Runner == nil {
			return fmt.Errorf("intent %s/%s has no runner", a.ID, in.ID)
		}
		for _, s := range in.Slots {
			if s.Name == "" || s.Type == nil {
				return fmt.Errorf("intent %s/%s has an invalid slot", a.ID, in.ID)
			}
		}
	}
	return nil
}
