package app

import (
	"context"
	"strings"
	"testing"
)

func noopRunner() Runner {
	return RunnerFunc(func(ctx context.Context, args map[string]any, call *Call) (string, error) {
		return "", nil
	})
}

func validTestApp() *App {
	return &App{
		ID: "timer",
		Intents: []*Intent{
			{
				ID:      "setTimer",
				Samples: []string{"set a timer for {duration}"},
				Slots:   []Slot{{Name: "duration", Type: &FreeText{Name: "raw"}}},
				Runner:  noopRunner(),
			},
		},
		Languages: []string{"en", "de"},
	}
}

func TestNewRegistry(t *testing.T) {
	a := validTestApp()
	r, err := NewRegistry(a)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if len(r.Apps()) != 1 {
		t.Fatalf("Apps() len = %d, want 1", len(r.Apps()))
	}
	got, ok := r.App("timer")
	if !ok || got != a {
		t.Errorf("App(timer) = %v, %v", got, ok)
	}
	if _, ok := r.App("missing"); ok {
		t.Error("App(missing) reported ok")
	}
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*App)
		wantErr string
	}{
		{
			name:    "missing app id",
			modify:  func(a *App) { a.ID = "" },
			wantErr: "missing id",
		},
		{
			name:    "no intents",
			modify:  func(a *App) { a.Intents = nil },
			wantErr: "declares no intents",
		},
		{
			name:    "slash in app id",
			modify:  func(a *App) { a.ID = "bad/id" },
			wantErr: "may not contain '/'",
		},
		{
			name:    "slash in intent id",
			modify:  func(a *App) { a.Intents[0].ID = "set/timer" },
			wantErr: "may not contain '/'",
		},
		{
			name:    "missing intent id",
			modify:  func(a *App) { a.Intents[0].ID = "" },
			wantErr: "without an id",
		},
		{
			name:    "duplicate intent id",
			modify:  func(a *App) { a.Intents = append(a.Intents, a.Intents[0]) },
			wantErr: "twice",
		},
		{
			name:    "nil runner",
			modify:  func(a *App) { a.Intents[0].Runner = nil },
			wantErr: "no runner",
		},
		{
			name:    "unnamed slot",
			modify:  func(a *App) { a.Intents[0].Slots[0].Name = "" },
			wantErr: "invalid slot",
		},
		{
			name:    "untyped slot",
			modify:  func(a *App) { a.Intents[0].Slots[0].Type = nil },
			wantErr: "invalid slot",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validTestApp()
			tt.modify(a)
			_, err := NewRegistry(a)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry_DuplicateAppID(t *testing.T) {
	_, err := NewRegistry(validTestApp(), validTestApp())
	if err == nil || !strings.Contains(err.Error(), "duplicate app id") {
		t.Fatalf("error = %v, want duplicate app id", err)
	}
}

func TestAppIntentLookup(t *testing.T) {
	a := validTestApp()
	if _, ok := a.Intent("setTimer"); !ok {
		t.Error("Intent(setTimer) not found")
	}
	if _, ok := a.Intent("other"); ok {
		t.Error("Intent(other) unexpectedly found")
	}
}
