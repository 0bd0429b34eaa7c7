package heuristic

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptyTemplate is returned when a key has no path template.
	ErrEmptyTemplate = errors.New("template must be a valid format string")

	// ErrUnknownField is returned when a template uses a placeholder Render
	// cannot fill.
	ErrUnknownField = errors.New("unknown template field")
)

// DefaultOutType is the converter output type used when a key names none.
const DefaultOutType = "nii.gz"

// Key is one output destination: a path template and the file types the
// converter writes for it.
type Key struct {
	Name     string   `json:"name" yaml:"name"`
	Template string   `json:"template" yaml:"template"`
	OutTypes []string `json:"outtype" yaml:"outtype"`
}

// NewKey builds a Key, defaulting the output types to nii.gz.
func NewKey(name, template string, outTypes ...string) (Key, error) {
	if strings.TrimSpace(template) == "" {
		return Key{}, fmt.Errorf("key %q: %w", name, ErrEmptyTemplate)
	}
	if len(outTypes) == 0 {
		outTypes = []string{DefaultOutType}
	}
	return Key{Name: name, Template: template, OutTypes: outTypes}, nil
}

var placeholderRe = regexp.MustCompile(`\{(\w+)(?::([^}]*))?\}`)
var intSpecRe = regexp.MustCompile(`^(0?)(\d*)d$`)

// Render fills {subject}, {session} and {item} in the template. Integer
// format specs such as {item:03d} are honoured.
func (k Key) Render(subject, session string, item int) (string, error) {
	var renderErr error
	out := placeholderRe.ReplaceAllStringFunc(k.Template, func(m string) string {
		parts := placeholderRe.FindStringSubmatch(m)
		field, spec := parts[1], parts[2]

		switch field {
		case "subject":
			return subject
		case "session":
			return session
		case "item":
			s, err := formatInt(item, spec)
			if err != nil && renderErr == nil {
				renderErr = err
			}
			return s
		default:
			if renderErr == nil {
				renderErr = fmt.Errorf("%w: %s", ErrUnknownField, field)
			}
			return m
		}
	})
	if renderErr != nil {
		return "", fmt.Errorf("key %q: %w", k.Name, renderErr)
	}
	return out, nil
}

func formatInt(n int, spec string) (string, error) {
	if spec == "" {
		return strconv.Itoa(n), nil
	}
	m := intSpecRe.FindStringSubmatch(spec)
	if m == nil {
		return "", fmt.Errorf("unsupported format spec %q", spec)
	}
	width := 0
	if m[2] != "" {
		width, _ = strconv.Atoi(m[2])
	}
	if m[1] == "0" {
		return fmt.Sprintf("%0*d", width, n), nil
	}
	return fmt.Sprintf("%*d", width, n), nil
}
