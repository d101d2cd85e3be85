package core

import "github.com/intentlabs/bridge/internal/app"

// Registration is the body POSTed to the core's registration endpoint, one
// per app. It carries everything the core needs to route voice commands back
// to this bridge: the callback URL, the shared auth token, and the app's
// capability descriptor.
type Registration struct {
	AppID   string         `json:"appID"`
	URL     string         `json:"url"`
	AuthKey string         `json:"authKey"`
	Intents app.Descriptor `json:"intents"`
}
