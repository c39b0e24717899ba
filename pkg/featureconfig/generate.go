package featureconfig

import (
	"bytes"
	"io"
)

// WriteHeader writes the generated header: external renames, the user
// configuration include, implication propagation, derivation warnings and
// the runtime feature-list declarations, in that order.
func WriteHeader(w io.Writer, p *Plan) error {
	return renderTemplate(w, "header", p)
}

// WriteSource writes the generated translation unit: requirement checks and
// the definitions of FEATURES, FEATURES_ALL and their counts.
func WriteSource(w io.Writer, p *Plan) error {
	return renderTemplate(w, "source", p)
}

// Header renders the header into a string.
func Header(p *Plan) (string, error) {
	var buf bytes.Buffer
	if err := WriteHeader(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Source renders the translation unit into a string.
func Source(p *Plan) (string, error) {
	var buf bytes.Buffer
	if err := WriteSource(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
