package data

import (
	"fmt"
	"slices"
	gosync "sync"

	"github.com/gostdlib/base/context"
	"github.com/gostdlib/base/telemetry/otel/trace/span"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/offset"
)

// Mapped is a structure instance registered on a Data.
type Mapped interface {
	// Size is the total size of the structure.
	Size() offset.Size
	// TypeName is the name of the structure type.
	TypeName() string
}

// Layout constructs Mapped structures. structs.Type implements it.
type Layout interface {
	Name() string
	Instantiate(ctx context.Context, d *Data, off offset.Offset) (Mapped, error)
}

// Setupper is implemented by a Mapped that wants to map further structures once it
// is registered, for example a file header that maps its section table.
type Setupper interface {
	Setup(ctx context.Context, d *Data) error
}

// Filter selects among the structures mapped at one offset.
type Filter func(m Mapped) bool

// OfType returns a Filter matching structures of the named type.
func OfType(name string) Filter {
	return func(m Mapped) bool {
		return m.TypeName() == name
	}
}

var (
	counterOnce gosync.Once
	mapped      metric.Int64Counter
)

func mappedCounter(ctx context.Context) metric.Int64Counter {
	counterOnce.Do(func() {
		c, err := context.Meter(ctx).Int64Counter(
			"bindecl.data.mapped",
			metric.WithDescription("Number of structures mapped onto buffers"),
		)
		if err != nil {
			logger().Warn("could not create mapped counter", "err", err)
			return
		}
		mapped = c
	})
	return mapped
}

// Map constructs a structure of layout l at off, registers it, then runs its Setup
// hook if it has one. On failure nothing stays registered by this call, including
// the structures a failed Setup mapped before failing.
func (d *Data) Map(ctx context.Context, off offset.Offset, l Layout) (Mapped, error) {
	ctx, sp := span.New(
		ctx,
		span.WithName("data.Map"),
		span.WithSpanStartOption(trace.WithSpanKind(trace.SpanKindInternal)),
	)
	defer sp.End()
	if sp.Span != nil {
		sp.Span.SetAttributes(
			attribute.String("bindecl.layout", l.Name()),
			attribute.String("bindecl.offset", off.String()),
		)
	}

	m, err := l.Instantiate(ctx, d, off)
	if err != nil {
		recordError(sp, err)
		return nil, err
	}
	defer d.enter()()
	mark := len(d.journal)
	d.register(off, m)

	if c := mappedCounter(ctx); c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.String("type", m.TypeName())))
	}
	logger().Debug("mapped structure", "buffer", d.name, "type", m.TypeName(), "offset", off.String(), "size", m.Size().String())

	if s, ok := m.(Setupper); ok {
		if err := s.Setup(ctx, d); err != nil {
			d.rollback(mark)
			recordError(sp, err)
			return nil, fmt.Errorf("setup of %s at %s: %w", m.TypeName(), off, err)
		}
	}
	return m, nil
}

func recordError(sp span.Span, err error) {
	if sp.Span != nil {
		sp.Span.RecordError(err)
	}
}

// MapArray maps n consecutive structures of layout l starting at off. Each one
// starts where the previous one ends. On failure no element stays registered.
func (d *Data) MapArray(ctx context.Context, off offset.Offset, n int, l Layout) ([]Mapped, error) {
	if n < 0 {
		return nil, errors.Errorf(errors.ErrInvalidReference, "negative array count %d", n)
	}
	defer d.enter()()
	mark := len(d.journal)
	out := make([]Mapped, 0, n)
	for i := 0; i < n; i++ {
		m, err := d.Map(ctx, off, l)
		if err != nil {
			d.rollback(mark)
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, m)
		off = off.Add(m.Size())
	}
	return out, nil
}

// MapFill maps consecutive structures of layout l from off until the end of the
// buffer is reached. A structure of size zero stops the walk. On failure the
// structures mapped before the failing one stay registered and are returned.
func (d *Data) MapFill(ctx context.Context, off offset.Offset, l Layout) ([]Mapped, error) {
	var out []Mapped
	for off.Byte < d.Len() {
		m, err := d.Map(ctx, off, l)
		if err != nil {
			return out, fmt.Errorf("element %d: %w", len(out), err)
		}
		out = append(out, m)
		if m.Size().IsZero() {
			break
		}
		off = off.Add(m.Size())
	}
	return out, nil
}

// Lookup returns the only structure mapped at off that filter accepts. A nil filter
// accepts everything. Zero or several matches fail with errors.ErrLookup.
func (d *Data) Lookup(off offset.Offset, filter Filter) (Mapped, error) {
	var found []Mapped
	for _, m := range d.mappings[off] {
		if filter == nil || filter(m) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, errors.Errorf(errors.ErrLookup, "no structure mapped at %s", off)
	}
	names := make([]string, 0, len(found))
	for _, m := range found {
		names = append(names, m.TypeName())
	}
	return nil, errors.Errorf(errors.ErrLookup, "%d structures mapped at %s %v, use a filter", len(found), off, names)
}

// MappedAt returns every structure mapped at off, in mapping order.
func (d *Data) MappedAt(off offset.Offset) []Mapped {
	return slices.Clone(d.mappings[off])
}

// Offsets returns the offsets holding at least one structure, in increasing order.
func (d *Data) Offsets() []offset.Offset {
	out := slices.Clone(d.order)
	slices.SortFunc(out, offset.Offset.Compare)
	return out
}

// registration is an entry of the journal of registrations a failed Map unwinds.
type registration struct {
	off offset.Offset
	m   Mapped
}

func (d *Data) register(off offset.Offset, m Mapped) {
	if len(d.mappings[off]) == 0 {
		d.order = append(d.order, off)
	}
	d.mappings[off] = append(d.mappings[off], m)
	d.journal = append(d.journal, registration{off: off, m: m})
}

// enter marks the start of a Map or MapArray call. The returned func ends it and
// drops the journal once the outermost call is done.
func (d *Data) enter() func() {
	d.depth++
	return func() {
		d.depth--
		if d.depth == 0 {
			d.journal = d.journal[:0]
		}
	}
}

// rollback unregisters, newest first, every structure registered since the journal
// was mark entries long.
func (d *Data) rollback(mark int) {
	for i := len(d.journal) - 1; i >= mark; i-- {
		d.unregister(d.journal[i].off, d.journal[i].m)
	}
	d.journal = d.journal[:mark]
}

func (d *Data) unregister(off offset.Offset, m Mapped) {
	list := d.mappings[off]
	for i, v := range list {
		if v == m {
			list = slices.Delete(list, i, i+1)
			break
		}
	}
	if len(list) > 0 {
		d.mappings[off] = list
		return
	}
	delete(d.mappings, off)
	if i := slices.Index(d.order, off); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
}
