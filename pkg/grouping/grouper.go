package grouping

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/fingerprint"
	"github.com/grouperdev/grouper/pkg/log"
	"github.com/grouperdev/grouper/pkg/rule"
	"github.com/grouperdev/grouper/pkg/variant"
)

// Result is the outcome of evaluating one event. It holds no reference to
// the config it was computed from and can outlive a reload.
type Result struct {
	// Rule is the winning rule, nil when no rule matched.
	Rule *rule.Rule `json:"-" yaml:"-"`
	// Fingerprint is the grouping key: the rendered template of the winning
	// rule, or the default sentinel.
	Fingerprint fingerprint.Fingerprint `json:"fingerprint" yaml:"fingerprint"`
	// Variants are the named grouping alternatives.
	Variants variant.Variants `json:"variants" yaml:"variants"`
}

// Matched reports whether some rule won.
func (r *Result) Matched() bool {
	return r.Rule != nil
}

// Evaluate runs one event through a config snapshot. It is pure and total:
// for a fixed (config, event) pair the result is always identical, and no
// input produces an error.
func Evaluate(cfg *Config, ev *event.Event) *Result {
	r := cfg.Select(ev)
	if r == nil {
		return &Result{
			Fingerprint: fingerprint.Default,
			Variants:    variant.Build(false, nil),
		}
	}

	fp := r.Render(ev)

	return &Result{
		Rule:        r,
		Fingerprint: fp,
		Variants:    variant.Build(true, fp),
	}
}

// Grouper owns the active config and evaluates events against it. Many
// goroutines may call [Grouper.Evaluate] concurrently; each evaluation
// reads a single atomic snapshot, so a concurrent [Grouper.Swap] never
// exposes a mix of old and new rules mid-evaluation.
type Grouper struct {
	cfg    atomic.Pointer[Config]
	tracer trace.Tracer
}

// New creates a grouper with an initial, already validated config.
func New(cfg *Config) *Grouper {
	g := &Grouper{
		tracer: otel.Tracer("grouper"),
	}
	g.cfg.Store(cfg)

	return g
}

// Config returns the active config snapshot.
func (g *Grouper) Config() *Config {
	return g.cfg.Load()
}

// Swap atomically replaces the active config. The new config must already
// be validated; swapping is the only supported way to change rules at
// runtime.
func (g *Grouper) Swap(cfg *Config) {
	g.cfg.Store(cfg)
}

// Evaluate decides how to group one event: select the first fully matching
// rule, render its fingerprint template, and assemble the variant set.
func (g *Grouper) Evaluate(ctx context.Context, ev *event.Event) *Result {
	ctx, span := g.tracer.Start(ctx, "evaluate")
	defer span.End()

	res := Evaluate(g.cfg.Load(), ev)

	span.SetAttributes(
		attribute.Bool("matched", res.Matched()),
		attribute.String("fingerprint", res.Fingerprint.String()),
	)

	logger := log.WithContext(ctx).With(
		slog.Bool("matched", res.Matched()),
		slog.String("fingerprint", res.Fingerprint.String()),
	)
	if res.Matched() {
		logger = logger.With(slog.String("rule", res.Rule.String()))
	}

	logger.Debug("evaluated event")

	return res
}
