package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/shinji-kodama/nik-checker/internal/config"
	"github.com/shinji-kodama/nik-checker/internal/model"
	"github.com/shinji-kodama/nik-checker/internal/render"
)

// Workflow runs lookups and records successful identifiers in History.
// It holds no other state; the same Workflow serves every lookup of a
// session.
type Workflow struct {
	client  *Client
	prober  Prober
	history *model.History

	// Logf receives trace messages. Defaults to a no-op.
	Logf func(format string, args ...interface{})

	now func() time.Time
}

// NewWorkflow wires a workflow. A nil prober skips the connectivity check.
// A nil history gets a fresh empty one.
func NewWorkflow(client *Client, prober Prober, history *model.History) *Workflow {
	if history == nil {
		history = &model.History{}
	}
	return &Workflow{
		client:  client,
		prober:  prober,
		history: history,
		Logf:    func(string, ...interface{}) {},
		now:     time.Now,
	}
}

// History returns the history this workflow appends to.
func (w *Workflow) History() *model.History {
	return w.history
}

// Run looks up a candidate identifier: Check followed by Fetch.
//
// On success the result carries the raw body and its two-space indented
// rendering, and the identifier is in History. On failure History is
// untouched.
func (w *Workflow) Run(ctx context.Context, candidate string) (*model.LookupResult, error) {
	id, err := w.Check(ctx, candidate)
	if err != nil {
		return nil, err
	}
	return w.Fetch(ctx, id)
}

// Check validates candidate and probes connectivity. Nothing is sent to
// the lookup endpoint. Callers that show progress can run Check first and
// only then announce the request.
func (w *Workflow) Check(ctx context.Context, candidate string) (model.Identifier, error) {
	// Step 1: Validate shape. Nothing below runs for bad input.
	id, err := model.ParseIdentifier(candidate)
	if err != nil {
		return "", err
	}

	// Step 2: Connectivity probe.
	if w.prober != nil {
		w.Logf("Probing connectivity before looking up %s", id)
		if err := w.prober.Probe(ctx); err != nil {
			return "", err
		}
	}
	return id, nil
}

// Fetch sends the single lookup request for an already checked id,
// formats the body and records id in History.
func (w *Workflow) Fetch(ctx context.Context, id model.Identifier) (*model.LookupResult, error) {
	// Step 3: The single lookup request.
	w.Logf("GET %s", w.client.URLFor(id))
	start := w.now()
	body, err := w.client.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	latency := w.now().Sub(start)
	w.Logf("Received %d bytes in %s", len(body), latency)

	// Step 4: Format. A non-JSON body is a failed request.
	formatted, err := render.IndentJSON(body)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitRequestFailed,
			fmt.Sprintf("lookup service returned a non-JSON response for NIK %s", id), err)
	}

	if w.history.Add(id) {
		w.Logf("Added %s to history (%d entries)", id, w.history.Len())
	}

	return &model.LookupResult{
		Identifier: id,
		Raw:        body,
		Formatted:  formatted,
		FetchedAt:  start.Add(latency),
		Latency:    latency,
	}, nil
}

// NewFromConfig builds the HTTP client, lookup client and prober from cfg.
// The prober is omitted when cfg.SkipProbe is set.
func NewFromConfig(cfg *config.Config, history *model.History) (*Workflow, error) {
	httpClient, err := NewHTTPClient()
	if err != nil {
		return nil, err
	}
	client, err := NewClient(httpClient, cfg.Endpoint, cfg.UserAgent, cfg.RequestTimeout)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "invalid lookup endpoint", err)
	}
	var prober Prober
	if !cfg.SkipProbe {
		prober = NewHTTPProber(httpClient, cfg.ProbeURL, cfg.ProbeTimeout, cfg.UserAgent)
	}
	return NewWorkflow(client, prober, history), nil
}
