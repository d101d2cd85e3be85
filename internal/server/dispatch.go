package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/intentlabs/bridge/internal/app"
	"github.com/intentlabs/bridge/internal/httputil"
	"github.com/intentlabs/bridge/internal/logging"
)

// commandRequest is the body of an inbound command invocation.
type commandRequest struct {
	Args map[string]any `json:"args"`
}

// commandResponse is the body of a successful invocation.
type commandResponse struct {
	ResponseText string `json:"responseText"`
}

// dispatcher turns an authenticated REST call into one intent invocation.
// All state is built at startup and read-only afterwards; the negotiated
// response language travels in the per-call app.Call value, never in shared
// state, so concurrent requests with different language preferences cannot
// interfere.
type dispatcher struct {
	registry    *app.Registry
	timeout     time.Duration
	defaultLang string
	matchers    map[string]*langMatcher
}

// langMatcher matches Accept-Language preferences against one app's declared
// languages.
type langMatcher struct {
	declared []string
	matcher  language.Matcher
}

func newDispatcher(registry *app.Registry, timeout time.Duration, defaultLang string) *dispatcher {
	d := &dispatcher{
		registry:    registry,
		timeout:     timeout,
		defaultLang: defaultLang,
		matchers:    make(map[string]*langMatcher),
	}
	for _, a := range registry.Apps() {
		var tags []language.Tag
		var declared []string
		for _, l := range a.Languages {
			tag, err := language.Parse(l)
			if err != nil {
				logging.Warnf("app %s declares unparseable language %q, skipping", a.ID, l)
				continue
			}
			tags = append(tags, tag)
			declared = append(declared, l)
		}
		if len(tags) > 0 {
			d.matchers[a.ID] = &langMatcher{declared: declared, matcher: language.NewMatcher(tags)}
		}
	}
	return d
}

// negotiate picks the response language for one request: the best match of
// the request's Accept-Language preferences against the app's declared
// languages, or the configured default when nothing matches.
func (d *dispatcher) negotiate(appID, acceptLanguage string) string {
	m, ok := d.matchers[appID]
	if !ok {
		return d.defaultLang
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return d.defaultLang
	}
	_, idx, conf := m.matcher.Match(prefs...)
	if conf == language.No {
		return d.defaultLang
	}
	return m.declared[idx]
}

// handle builds the handler for one (app, intent) route.
func (d *dispatcher) handle(a *app.App, in *app.Intent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, http.StatusBadRequest, err.Error(), "")
			return
		}

		call := &app.Call{
			Language: d.negotiate(a.ID, r.Header.Get("Accept-Language")),
			Apps:     d.registry,
		}

		ctx, cancel := context.WithTimeout(r.Context(), d.timeout)
		defer cancel()

		text, err := in.Runner.Run(ctx, req.Args, call)
		if err != nil {
			d.writeError(w, a.ID, in.ID, err)
			return
		}
		httputil.OkJSON(w, commandResponse{ResponseText: text})
	}
}

// writeError shapes an intent failure into the JSON error response. The
// status comes from the failure's declared code when it carries one, 408 for
// an exceeded invocation timeout, and 400 otherwise.
func (d *dispatcher) writeError(w http.ResponseWriter, appID, intentID string, err error) {
	logging.Errorf("intent %s/%s failed: %v", appID, intentID, err)

	var ie *app.IntentError
	if errors.As(err, &ie) {
		status := ie.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		httputil.Error(w, status, ie.Message, ie.Code)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		httputil.Error(w, http.StatusRequestTimeout, "intent execution timed out", "timeout")
		return
	}
	httputil.Error(w, http.StatusBadRequest, err.Error(), "")
}
