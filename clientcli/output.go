package clientcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/stratum"
)

// Formatter formats results for output.
type Formatter interface {
	FormatSnapshot(w io.Writer, snap *Snapshot) error
	FormatValue(w io.Writer, v *stratum.Value) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	// Quiet prints bare values without headers or sources.
	Quiet bool
}

// FormatSnapshot prints a KEY VALUE SOURCE table followed by any warnings.
func (f *HumanFormatter) FormatSnapshot(w io.Writer, snap *Snapshot) error {
	if len(snap.Values) == 0 {
		_, _ = fmt.Fprintln(w, "No values")
		return nil
	}

	if f.Quiet {
		for _, v := range snap.Values {
			_, _ = fmt.Fprintf(w, "%s=%s\n", v.Key, v.Display())
		}
		return nil
	}

	maxKeyLen := 3   // "KEY"
	maxValueLen := 5 // "VALUE"
	for _, v := range snap.Values {
		maxKeyLen = max(maxKeyLen, len(v.Key))
		maxValueLen = max(maxValueLen, len(v.Display()))
	}
	maxKeyLen = min(maxKeyLen, 50)
	maxValueLen = min(maxValueLen, 60)

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", maxKeyLen, "KEY", maxValueLen, "VALUE", "SOURCE")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxKeyLen), strings.Repeat("-", maxValueLen), strings.Repeat("-", 7))

	for _, v := range snap.Values {
		_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n",
			maxKeyLen, truncate(v.Key, maxKeyLen),
			maxValueLen, truncate(v.Display(), maxValueLen),
			v.Source,
		)
	}

	_, _ = fmt.Fprintf(w, "\n%d value(s)\n", len(snap.Values))

	for _, warning := range snap.Warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	return nil
}

// FormatValue prints a single value.
func (f *HumanFormatter) FormatValue(w io.Writer, v *stratum.Value) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, v.Display())
		return nil
	}
	_, _ = fmt.Fprintf(w, "Key:    %s\n", v.Key)
	_, _ = fmt.Fprintf(w, "Value:  %s\n", v.Display())
	_, _ = fmt.Fprintf(w, "Type:   %s\n", v.Type)
	_, _ = fmt.Fprintf(w, "Source: %s\n", v.Source)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	var report *ReportError
	if errors.As(err, &report) {
		_, _ = fmt.Fprintln(w, "Error: configuration rejected, previous configuration kept")
		for _, p := range report.Problems {
			_, _ = fmt.Fprintf(w, "  - [%s] %s\n", p.Problem, p.Message)
		}
		return nil
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxEndpointLen = max(maxEndpointLen, len(profiles[i].Endpoint))
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "TOKEN")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.Endpoint, maxEndpointLen),
			maskSecret(p.Token, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Token:    %s\n", maskSecret(profile.Token, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatSnapshot formats the snapshot as JSON.
func (f *JSONFormatter) FormatSnapshot(w io.Writer, snap *Snapshot) error {
	return writeJSON(w, snap)
}

// FormatValue formats a single value as JSON.
func (f *JSONFormatter) FormatValue(w io.Writer, v *stratum.Value) error {
	return writeJSON(w, v)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error    string    `json:"error"`
		Problems []Problem `json:"problems,omitempty"`
	}{
		Error: err.Error(),
	}

	var report *ReportError
	if errors.As(err, &report) {
		output.Problems = report.Problems
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Token    string `json:"token,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Token:    maskSecret(p.Token, showSecrets),
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Token    string `json:"token"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Token:    maskSecret(profile.Token, showSecrets),
		Default:  isDefault,
	}

	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
