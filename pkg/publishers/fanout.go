package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers each event to a fixed set of publishers, one after another.
type Fanout struct {
	publishers []Publisher
}

// NewFanout wraps pubs, skipping nil entries.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish hands evt to every publisher, even after a failure, and reports how many
// accepted it. Failures are joined into the returned error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (delivered int, err error) {
	var errs []error
	for _, p := range f.list() {
		if perr := p.Publish(ctx, evt); perr != nil {
			errs = append(errs, describe(p, perr))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size reports the number of publishers.
func (f *Fanout) Size() int { return len(f.list()) }

// Close closes every publisher and joins their errors.
func (f *Fanout) Close() error {
	var errs []error
	for _, p := range f.list() {
		if err := p.Close(); err != nil {
			errs = append(errs, describe(p, fmt.Errorf("close: %w", err)))
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) list() []Publisher {
	if f == nil {
		return nil
	}
	return f.publishers
}

func describe(p Publisher, err error) error {
	return fmt.Errorf("%s publisher %q: %w", p.Type(), p.ID(), err)
}
