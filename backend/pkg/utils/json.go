package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

type ExtraDataAfterJSONError struct{}

func (e *ExtraDataAfterJSONError) Error() string {
	return "extra data after JSON object"
}

// FromJSON decodes exactly one JSON value into T. Unknown fields are rejected.
// Empty input yields the zero value.
func FromJSON[T any](data []byte) (T, error) {
	var result T
	if len(data) == 0 {
		return result, nil
	}

	return FromJSONStream[T](bytes.NewReader(data))
}

// FromJSONStream is FromJSON for readers. An empty reader is an error.
func FromJSONStream[T any](r io.Reader) (T, error) {
	var result T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&result); err != nil {
		return result, err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return result, &ExtraDataAfterJSONError{}
	}

	return result, nil
}

func ToJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := ToJSONStream(&buf, v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func ToJSONIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := ToJSONStreamIndent(&buf, v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func MustToJSONIndent(v any) []byte {
	b, err := ToJSONIndent(v)
	if err != nil {
		panic(err)
	}

	return b
}

func ToJSONStream(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}

func ToJSONStreamIndent(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
