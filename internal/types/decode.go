package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is wrapped by every MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError reports a required key absent from a dump record.
type MissingFieldError struct {
	Kind   string // "class", "method", "member", ...
	Record string // name of the record, empty if unknown
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("%s: %v %q", e.Kind, ErrMissingField, e.Field)
	}
	return fmt.Sprintf("%s %q: %v %q", e.Kind, e.Record, ErrMissingField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// DecodeReference decodes a complete reflection dump. The project fields name,
// description and version are read from the top-level object.
func DecodeReference(data []byte) (*RawReference, error) {
	r, err := newRecord("reference", data)
	if err != nil {
		return nil, err
	}

	ref := &RawReference{}
	err = r.require(
		field{"name", &ref.Project.Name},
		field{"description", &ref.Project.Description},
		field{"version", &ref.Project.Version},
	)
	if err != nil {
		return nil, err
	}

	var classes json.RawMessage
	if err := r.require(field{"classes", &classes}); err != nil {
		return nil, err
	}
	ref.Classes, err = DecodeClasses(classes)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// DecodeClasses decodes a JSON array of class records. Records without a
// name key are skipped; any other missing required field is an error.
func DecodeClasses(data []byte) ([]RawClass, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}

	classes := make([]RawClass, 0, len(entries))
	for _, entry := range entries {
		r, err := newRecord("class", entry)
		if err != nil {
			return nil, err
		}
		if !r.has("name") {
			continue
		}
		class, err := decodeClass(r)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func decodeClass(r *record) (RawClass, error) {
	var c RawClass
	var extends, methods, statics, members, signals, constants json.RawMessage
	err := r.require(
		field{"name", &c.Name},
		field{"extends_class", &extends},
		field{"description", &c.Description},
		field{"path", &c.Path},
		field{"methods", &methods},
		field{"static_functions", &statics},
		field{"members", &members},
		field{"signals", &signals},
		field{"constants", &constants},
	)
	if err != nil {
		return c, err
	}

	if c.Extends, err = decodeChain(extends); err != nil {
		return c, fmt.Errorf("class %q: extends_class: %w", c.Name, err)
	}
	if c.Methods, err = decodeList(methods, "method", decodeMethod); err != nil {
		return c, err
	}
	if c.StaticFunctions, err = decodeList(statics, "method", decodeMethod); err != nil {
		return c, err
	}
	if c.Members, err = decodeList(members, "member", decodeMember); err != nil {
		return c, err
	}
	if c.Signals, err = decodeList(signals, "signal", decodeSignal); err != nil {
		return c, err
	}
	if c.Constants, err = decodeList(constants, "constant", decodeConstant); err != nil {
		return c, err
	}
	return c, nil
}

func decodeMethod(r *record) (RawMethod, error) {
	var m RawMethod
	var args json.RawMessage
	err := r.require(
		field{"name", &m.Name},
		field{"description", &m.Description},
		field{"arguments", &args},
		field{"return_type", &m.ReturnType},
		field{"signature", &m.Signature},
	)
	if err != nil {
		return m, err
	}
	if err := r.optional(field{"rpc_mode", &m.RPCMode}); err != nil {
		return m, err
	}
	m.Arguments, err = decodeList(args, "argument", decodeArgument)
	return m, err
}

func decodeArgument(r *record) (RawArgument, error) {
	var a RawArgument
	err := r.require(field{"name", &a.Name}, field{"type", &a.Type})
	return a, err
}

func decodeMember(r *record) (RawMember, error) {
	var m RawMember
	var def json.RawMessage
	err := r.require(
		field{"name", &m.Name},
		field{"signature", &m.Signature},
		field{"description", &m.Description},
		field{"data_type", &m.DataType},
		field{"default_value", &def},
		field{"export", &m.Export},
		field{"setter", &m.Setter},
		field{"getter", &m.Getter},
	)
	if err != nil {
		return m, err
	}
	m.DefaultValue = looseString(def)
	return m, nil
}

func decodeSignal(r *record) (RawSignal, error) {
	var s RawSignal
	var args []json.RawMessage
	err := r.require(
		field{"name", &s.Name},
		field{"signature", &s.Signature},
		field{"description", &s.Description},
		field{"arguments", &args},
	)
	if err != nil {
		return s, err
	}
	s.Arguments = make([]string, 0, len(args))
	for _, a := range args {
		s.Arguments = append(s.Arguments, looseString(a))
	}
	return s, nil
}

func decodeConstant(r *record) (RawConstant, error) {
	var c RawConstant
	if err := r.require(field{"data_type", &c.DataType}); err != nil {
		return c, err
	}
	if c.DataType != DictionaryType {
		err := r.optional(
			field{"name", &c.Name},
			field{"signature", &c.Signature},
			field{"description", &c.Description},
			field{"value", &c.Value},
		)
		return c, err
	}

	err := r.require(
		field{"name", &c.Name},
		field{"signature", &c.Signature},
		field{"description", &c.Description},
		field{"value", &c.Values},
	)
	if err != nil {
		return c, err
	}
	c.Value = c.Values
	return c, nil
}

// decodeChain accepts either a list of class names or a single name.
func decodeChain(data json.RawMessage) ([]string, error) {
	var chain []string
	if err := json.Unmarshal(data, &chain); err == nil {
		return chain, nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	if single == "" {
		return nil, nil
	}
	return []string{single}, nil
}

// looseString returns JSON strings verbatim, null as "" and any other value
// as its JSON text.
func looseString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	if string(data) == "null" {
		return ""
	}
	return string(data)
}

func decodeList[T any](data json.RawMessage, kind string, decode func(*record) (T, error)) ([]T, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		r, err := newRecord(kind, entry)
		if err != nil {
			return nil, err
		}
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// record is one JSON object with its keys kept raw so that key presence can
// be checked independently of the value.
type record struct {
	kind   string
	name   string
	fields map[string]json.RawMessage
}

type field struct {
	key string
	dst any
}

func newRecord(kind string, data []byte) (*record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	r := &record{kind: kind, fields: fields}
	if raw, ok := fields["name"]; ok {
		_ = json.Unmarshal(raw, &r.name)
	}
	return r, nil
}

func (r *record) has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r *record) require(fields ...field) error {
	for _, f := range fields {
		if !r.has(f.key) {
			return &MissingFieldError{Kind: r.kind, Record: r.name, Field: f.key}
		}
		if err := r.decode(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *record) optional(fields ...field) error {
	for _, f := range fields {
		if !r.has(f.key) {
			continue
		}
		if err := r.decode(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *record) decode(f field) error {
	if err := json.Unmarshal(r.fields[f.key], f.dst); err != nil {
		return fmt.Errorf("%s %q: field %q: %w", r.kind, r.name, f.key, err)
	}
	return nil
}
