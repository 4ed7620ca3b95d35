package formerr

import (
	"reflect"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Meta is the per-field metadata exposed by the form engine.
type Meta struct {
	Errors []string
}

// FormErrors wraps the error tree snapshots of a whole form.
type FormErrors struct {
	Errors []any
}

// FormState is what the form-level accessor returns.
type FormState struct {
	Form *FormErrors
}

// Field is the narrow view of a form field needed to resolve its error.
type Field interface {
	// Name returns the field identifier, e.g. people[0].firstName.
	Name() string
	// Meta returns the field's local metadata.
	Meta() Meta
	// AllErrors returns the form-wide error tree snapshots.
	AllErrors() (FormState, error)
}

// StaticField is a Field backed by plain values.
type StaticField struct {
	FieldName string
	Local     []string
	Snapshots []any
}

func (f StaticField) Name() string { return f.FieldName }
func (f StaticField) Meta() Meta   { return Meta{Errors: f.Local} }
func (f StaticField) AllErrors() (FormState, error) {
	return FormState{Form: &FormErrors{Errors: f.Snapshots}}, nil
}

// Result is the outcome of resolving one field.
type Result struct {
	HasError bool
	Message  string
}

// MarshalJSON renders {"hasError": bool, "errorMessage": string|null}.
func (r Result) MarshalJSON() ([]byte, error) {
	var msg *string
	if r.HasError {
		msg = &r.Message
	}
	return json.Marshal(struct {
		HasError     bool    `json:"hasError"`
		ErrorMessage *string `json:"errorMessage"`
	}{r.HasError, msg})
}

// Resolver resolves field errors using an ordered list of strategies.
// A Resolver is immutable after New and safe for concurrent use.
type Resolver struct {
	log        *zap.Logger
	strategies []Strategy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for recovered failures. nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithStrategies replaces the default strategy chain. nil entries are dropped.
func WithStrategies(ss ...Strategy) Option {
	return func(r *Resolver) {
		r.strategies = r.strategies[:0:0]
		for _, s := range ss {
			if s != nil {
				r.strategies = append(r.strategies, s)
			}
		}
	}
}

// New returns a Resolver using DefaultStrategies unless overridden.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: zap.NewNop(), strategies: DefaultStrategies()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve reports the error to show for f.
//
// The first local error wins. Otherwise each snapshot is searched in order
// with every strategy and the first message found is returned. Resolve never
// panics: nil fields, panicking accessors, accessor errors and malformed
// trees all yield a zero Result.
func (r *Resolver) Resolve(f Field) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Debug("field error resolution recovered", zap.Any("panic", p))
			res = Result{}
		}
	}()
	if isNilField(f) {
		return Result{}
	}
	if local := f.Meta().Errors; len(local) > 0 && local[0] != "" {
		return Result{HasError: true, Message: local[0]}
	}
	name := f.Name()
	if name == "" {
		return Result{}
	}
	state, err := f.AllErrors()
	if err != nil {
		r.log.Debug("form errors unavailable", zap.String("field", name), zap.Error(err))
		return Result{}
	}
	if state.Form == nil {
		return Result{}
	}
	if msg, ok := r.lookup(NewQuery(name), state.Form.Errors); ok {
		return Result{HasError: true, Message: msg}
	}
	return Result{}
}

func (r *Resolver) lookup(q Query, snapshots []any) (string, bool) {
	for _, snap := range snapshots {
		for _, s := range r.strategies {
			if msg, ok := s.Lookup(snap, q); ok {
				return msg, true
			}
		}
	}
	return "", false
}

// ResolveRecord resolves a loosely typed field record, as decoded from JSON
// or YAML:
//
//	{"name": "people[0].firstName",
//	 "meta": {"errors": ["..."]},
//	 "form": {"errors": [snapshot, ...]}}
//
// A record without a string name yields a zero Result. A local error list
// that is not a list of strings is ignored. A form.errors mapping is treated
// as a single snapshot.
func (r *Resolver) ResolveRecord(rec any) Result {
	name, ok := stringAt(rec, "name")
	if !ok {
		return Result{}
	}
	f := StaticField{FieldName: name}
	if meta, ok := child(rec, "meta"); ok {
		if errs, ok := child(meta, "errors"); ok {
			f.Local = stringList(errs)
		}
	}
	if form, ok := child(rec, "form"); ok {
		if errs, ok := child(form, "errors"); ok {
			switch v := errs.(type) {
			case []any:
				f.Snapshots = v
			case map[string]any, map[any]any:
				f.Snapshots = []any{v}
			}
		}
	}
	return r.Resolve(f)
}

var defaultResolver = New()

// Resolve resolves f with the default Resolver.
func Resolve(f Field) Result { return defaultResolver.Resolve(f) }

// ResolveRecord resolves rec with the default Resolver.
func ResolveRecord(rec any) Result { return defaultResolver.ResolveRecord(rec) }

func isNilField(f Field) bool {
	if f == nil {
		return true
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

func stringAt(node any, key string) (string, bool) {
	v, ok := child(node, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}
