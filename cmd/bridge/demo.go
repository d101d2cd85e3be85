package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/intentlabs/bridge"
)

// demoApp is a tiny lights app exercising every descriptor feature: sample
// phrases, a finite slot type, a free-text slot, and localized responses.
func demoApp() *bridge.App {
	color := &bridge.EnumType{Name: "color", Terms: []string{"red", "green", "blue"}}

	return &bridge.App{
		ID:        "demoLights",
		Languages: []string{"en", "de"},
		Intents: []*bridge.Intent{
			{
				ID:      "hello",
				Samples: []string{"say hello", "greet me"},
				Runner: bridge.RunnerFunc(func(ctx context.Context, args map[string]any, call *bridge.Call) (string, error) {
					if call.Language == "de" {
						return "Hallo von der Bridge", nil
					}
					return "Hello from the bridge", nil
				}),
			},
			{
				ID:      "setColor",
				Samples: []string{"make the {room} lights {color}", "set {room} to {color}"},
				Slots: []bridge.Slot{
					{Name: "color", Type: color},
					{Name: "room", Type: &bridge.FreeText{Name: "roomName"}},
				},
				Runner: bridge.RunnerFunc(func(ctx context.Context, args map[string]any, call *bridge.Call) (string, error) {
					c, ok := args["color"].(string)
					if !ok || c == "" {
						return "", bridge.NewIntentError(http.StatusBadRequest, "missingSlot", "color is required")
					}
					room, _ := args["room"].(string)
					if room == "" {
						room = "living room"
					}
					return fmt.Sprintf("Setting the %s lights to %s", room, c), nil
				}),
			},
		},
	}
}
