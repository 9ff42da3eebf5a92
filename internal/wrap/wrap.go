// Package wrap composes protective layers around user source before it is
// handed to the obfuscation engine. Composition order is fixed: the
// anti-tamper prologue always precedes the original source, and the
// password gate always encloses whatever has been built so far.
package wrap

import (
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"

	"code-armor/internal/domain"
)

// TamperCheckInterval is the snapshot re-read interval in milliseconds.
const TamperCheckInterval = 2000

// Banner is printed by the password gate before prompting.
const Banner = "=== This script is password protected ==="

var gateTemplate = template.Must(template.New("gate").Parse(passwordGateTemplate))

var tamperTemplate = template.Must(template.New("tamper").Parse(antiTamperSnippet))

// gateParams feeds the password gate template.
type gateParams struct {
	EncodedPassword string
	Banner          string
	Payload         string
}

// tamperParams feeds the anti-tamper template.
type tamperParams struct {
	IntervalMillis int
}

// Wrap applies the selected layers to source. With no options set it is the
// identity function. Rendering cannot fail for well-formed templates; an
// error here means a programming bug in the snippet definitions.
func Wrap(source string, opts domain.WrapOptions) (string, error) {
	out := source

	if opts.AntiTamper {
		var b strings.Builder
		if err := tamperTemplate.Execute(&b, tamperParams{IntervalMillis: TamperCheckInterval}); err != nil {
			return "", fmt.Errorf("render anti-tamper snippet: %w", err)
		}
		out = b.String() + out
	}

	if opts.Password != "" {
		var b strings.Builder
		err := gateTemplate.Execute(&b, gateParams{
			EncodedPassword: EncodePassword(opts.Password),
			Banner:          Banner,
			Payload:         out,
		})
		if err != nil {
			return "", fmt.Errorf("render password gate: %w", err)
		}
		out = b.String()
	}

	return out, nil
}

// ForcesStrongestPreset reports whether these options override the caller's
// preset choice. Password-gated output must never be lightly obfuscated.
func ForcesStrongestPreset(opts domain.WrapOptions) bool {
	return opts.Password != ""
}

// EncodePassword applies the reversible transport encoding used inside the
// gate snippet.
func EncodePassword(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}
