package config

import (
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"github.com/styleguard/styleguard/internal/diag"
	"github.com/styleguard/styleguard/internal/rule"
	"github.com/styleguard/styleguard/pkg/config"
)

var (
	// ErrUnknownRule is returned for a config entry naming no registered
	// rule. A typo in a rule id must fail loudly, not silently skip the
	// rule.
	ErrUnknownRule = errors.New("unknown rule id")

	// ErrInvalidSeverity is returned for a severity override outside
	// error/warning.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrInvalidOptions is returned when rule options fail to decode or
	// validate.
	ErrInvalidOptions = errors.New("invalid rule options")
)

// Resolved is the configuration after validation against the rule
// registry, in the shape the engine and aggregator consume.
type Resolved struct {
	// Policy carries enablement and severity overrides.
	Policy diag.Policy

	// Options maps rule ids to decoded, validated option structs.
	Options map[string]any

	// Workers bounds concurrent file checks; zero means one per CPU.
	Workers int

	// FixIterations bounds the fix loop per file.
	FixIterations int
}

// validatable is implemented by option structs that check their values.
type validatable interface {
	Validate() error
}

// Resolve validates cfg against the registry and decodes per-rule
// options. All errors are configuration errors: the run must abort before
// checking any file.
func Resolve(cfg *config.Config, registry *rule.Registry) (*Resolved, error) {
	if cfg.Global.FixIterations < 1 {
		return nil, errors.Newf("global.fix_iterations must be at least 1, got %d", cfg.Global.FixIterations)
	}

	if cfg.Global.Workers < 0 {
		return nil, errors.Newf("global.workers must not be negative, got %d", cfg.Global.Workers)
	}

	res := &Resolved{
		Policy: diag.Policy{
			Disabled:   make(map[string]bool),
			Severities: make(map[string]rule.Severity),
		},
		Options:       make(map[string]any),
		Workers:       cfg.Global.Workers,
		FixIterations: cfg.Global.FixIterations,
	}

	ids := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		rc := cfg.Rules[id]

		rl, ok := registry.Get(id)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownRule, "%s", id)
		}

		if rc.Enabled != nil && !*rc.Enabled {
			res.Policy.Disabled[id] = true
		}

		if rc.Severity != "" {
			sev := rule.Severity(rc.Severity)
			if !sev.Valid() {
				return nil, errors.Wrapf(ErrInvalidSeverity, "%s: %q", id, rc.Severity)
			}

			res.Policy.Severities[id] = sev
		}

		if len(rc.Options) == 0 {
			continue
		}

		opts, err := decodeOptions(rl, rc.Options)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", id)
		}

		res.Options[id] = opts
	}

	return res, nil
}

// decodeOptions decodes user options over a fresh copy of the rule's
// defaults. Unknown keys are rejected so typos surface at load time.
func decodeOptions(rl rule.Rule, raw map[string]any) (any, error) {
	cfgRule, ok := rl.(rule.Configurable)
	if !ok {
		return nil, errors.Wrap(ErrInvalidOptions, "rule accepts no options")
	}

	opts := cloneDefaults(cfgRule.DefaultOptions())

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      opts,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building options decoder")
	}

	if err := dec.Decode(raw); err != nil {
		return nil, errors.Wrapf(ErrInvalidOptions, "%v", err)
	}

	if v, ok := opts.(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrapf(ErrInvalidOptions, "%v", err)
		}
	}

	return opts, nil
}

// cloneDefaults copies a defaults struct so decoding never mutates the
// rule's own copy.
func cloneDefaults(def any) any {
	v := reflect.ValueOf(def)
	if v.Kind() != reflect.Pointer {
		return def
	}

	clone := reflect.New(v.Elem().Type())
	clone.Elem().Set(v.Elem())

	return clone.Interface()
}
