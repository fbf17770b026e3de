package boxerr

import "go.uber.org/multierr"

// Aggregator collects multiple validation failures (e.g. every offending
// field in a YAML document) instead of stopping at the first one, using
// go.uber.org/multierr the way the tfx example collects step failures.
type Aggregator struct {
	err error
}

// NewAggregator returns an empty Aggregator ready to collect errors.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends err to the aggregate, if non-nil.
func (a *Aggregator) Add(err error) {
	if err == nil {
		return
	}
	a.err = multierr.Append(a.err, err)
}

// Addf appends a formatted SchemaError to the aggregate.
func (a *Aggregator) Addf(source, format string, args ...any) {
	a.Add(Newf(KindSchema, source, format, args...))
}

// HasErrors reports whether any error has been collected.
func (a *Aggregator) HasErrors() bool {
	return a.err != nil
}

// Err returns the combined error, or nil if none were collected.
func (a *Aggregator) Err() error {
	if a.err == nil {
		return nil
	}
	return New(KindSchema, "loader", a.err)
}

// Errors returns the individual errors that were combined.
func (a *Aggregator) Errors() []error {
	return multierr.Errors(a.err)
}
