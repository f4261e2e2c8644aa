package property

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// MarshalJSON encodes v. List-like arrays become JSON arrays, other arrays
// become objects with their keys in order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendJSON(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes any JSON value into v, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := newJSONDecoder(data)

	out, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}

	if err := expectJSONEOF(dec); err != nil {
		return err
	}

	*v = out

	return nil
}

// MarshalJSON encodes m as a JSON object with keys in order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}

		i++

		if err := writeJSONString(&buf, k); err != nil {
			return nil, err
		}

		buf.WriteByte(':')

		if err := v.appendJSON(&buf); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into m, keeping key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := newJSONDecoder(data)

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("properties must be a JSON object")
	}

	obj, err := decodeJSONObject(dec)
	if err != nil {
		return err
	}

	if err := expectJSONEOF(dec); err != nil {
		return err
	}

	for _, e := range obj.entries {
		m.Set(e.Key, e.Value)
	}

	return nil
}

func (v Value) appendJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.integer, 10))
	case KindFloat:
		b, err := json.Marshal(v.float)
		if err != nil {
			return err
		}

		buf.Write(b)
	case KindString:
		return writeJSONString(buf, v.str)
	case KindArray:
		if v.IsList() {
			buf.WriteByte('[')

			for i, e := range v.entries {
				if i > 0 {
					buf.WriteByte(',')
				}

				if err := e.Value.appendJSON(buf); err != nil {
					return err
				}
			}

			buf.WriteByte(']')

			return nil
		}

		buf.WriteByte('{')

		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeJSONString(buf, e.Key); err != nil {
				return err
			}

			buf.WriteByte(':')

			if err := e.Value.appendJSON(buf); err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %s", v.kind)
	}

	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	buf.Write(b)

	return nil
}

func newJSONDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec
}

func expectJSONEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level JSON value")
	}

	return nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return numberValue(t)
	case string:
		return Str(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// decodeJSONObject reads object members after the opening brace.
func decodeJSONObject(dec *json.Decoder) (Value, error) {
	out := EmptyArray()

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected JSON object key %v", tok)
		}

		if key == "" {
			return Value{}, errors.New("empty key in JSON object")
		}

		v, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}

		out = out.With(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return out, nil
}

// decodeJSONArray reads array elements after the opening bracket.
func decodeJSONArray(dec *json.Decoder) (Value, error) {
	var values []Value

	for dec.More() {
		v, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}

		values = append(values, v)
	}

	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return List(values...), nil
}

func numberValue(n json.Number) (Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return Int(i), nil
	}

	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid JSON number %q: %w", n, err)
	}

	return Float(f), nil
}
