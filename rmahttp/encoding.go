package rmahttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ResponseEncoding describes how a Client decodes response bodies.
type ResponseEncoding string

const (
	// EncodingJSON decodes bodies as JSON into any value.  This is the default.
	EncodingJSON ResponseEncoding = "json"

	// EncodingText reads bodies verbatim into a *string.
	EncodingText ResponseEncoding = "text"

	// EncodingBlob reads bodies verbatim into a *[]byte.
	EncodingBlob ResponseEncoding = "blob"
)

// UnsupportedEncodingError is returned when a ResponseEncoding is not one of
// the known constants.
type UnsupportedEncodingError struct {
	Encoding string
}

func (uee *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported response encoding: %q", uee.Encoding)
}

// UnsupportedTargetError is returned when a decode target does not match the
// response encoding, e.g. a *int for EncodingText.
type UnsupportedTargetError struct {
	Encoding ResponseEncoding
	Target   any
}

func (ute *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("response encoding %s cannot decode into %T", ute.Encoding, ute.Target)
}

// Validate checks that this encoding is known.  The empty string is not valid;
// ClientConfig supplies the default.
func (re ResponseEncoding) Validate() error {
	switch re {
	case EncodingJSON, EncodingText, EncodingBlob:
		return nil

	default:
		return &UnsupportedEncodingError{Encoding: string(re)}
	}
}

// UnmarshalText allows a ResponseEncoding to be validated as it is unmarshaled.
func (re *ResponseEncoding) UnmarshalText(b []byte) error {
	v := ResponseEncoding(b)
	if err := v.Validate(); err != nil {
		return err
	}

	*re = v
	return nil
}

// String returns the configuration value of this encoding.
func (re ResponseEncoding) String() string {
	return string(re)
}

// Accept returns the Accept header value appropriate for this encoding.
func (re ResponseEncoding) Accept() string {
	switch re {
	case EncodingJSON:
		return "application/json, text/plain, */*"

	case EncodingText:
		return "text/plain, */*"

	default:
		return "*/*"
	}
}

// Decode reads body into target according to this encoding.  A nil target
// discards the body.
func (re ResponseEncoding) Decode(body io.Reader, target any) error {
	if target == nil {
		_, err := io.Copy(io.Discard, body)
		return err
	}

	switch re {
	case EncodingJSON:
		err := json.NewDecoder(body).Decode(target)
		if errors.Is(err, io.EOF) {
			// an empty body leaves the target untouched
			err = nil
		}

		return err

	case EncodingText:
		s, ok := target.(*string)
		if !ok {
			return &UnsupportedTargetError{Encoding: re, Target: target}
		}

		b, err := io.ReadAll(body)
		*s = string(b)
		return err

	case EncodingBlob:
		p, ok := target.(*[]byte)
		if !ok {
			return &UnsupportedTargetError{Encoding: re, Target: target}
		}

		b, err := io.ReadAll(body)
		*p = b
		return err

	default:
		return &UnsupportedEncodingError{Encoding: string(re)}
	}
}
