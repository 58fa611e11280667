package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"nap/internal/domain"
)

// DefaultFilename is the manifest read when no path is given.
const DefaultFilename = "nap.yaml"

// EnvRelays overrides the manifest's relay list.
const EnvRelays = "NAP_RELAYS"

// Publish holds optional round settings. Zero or nil values are unset.
type Publish struct {
	Timeout time.Duration  `yaml:"timeout"`
	Retries *int           `yaml:"retries"`
	Backoff *time.Duration `yaml:"backoff"`
}

// Manifest is a parsed nap.yaml.
type Manifest struct {
	App     domain.ApplicationMetadata
	Relays  []domain.RelayEndpoint
	Publish Publish
}

type file struct {
	domain.ApplicationMetadata `yaml:",inline"`

	Relays  []relayEntry `yaml:"relays"`
	Publish Publish      `yaml:"publish"`
}

// relayEntry accepts either a bare URL or a {url, timeout} mapping.
type relayEntry domain.RelayEndpoint

func (r *relayEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.URL)
	case yaml.MappingNode:
		var ep struct {
			URL     string        `yaml:"url"`
			Timeout time.Duration `yaml:"timeout"`
		}
		if err := node.Decode(&ep); err != nil {
			return err
		}
		r.URL, r.Timeout = ep.URL, ep.Timeout
		return nil
	default:
		return fmt.Errorf("line %d: relay must be a URL or a {url, timeout} mapping", node.Line)
	}
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest. Unknown keys are errors.
func Parse(r io.Reader) (*Manifest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m := &Manifest{App: f.ApplicationMetadata, Publish: f.Publish}
	for _, e := range f.Relays {
		m.Relays = append(m.Relays, domain.RelayEndpoint(e))
	}
	if m.Publish.Retries != nil && *m.Publish.Retries < 0 {
		return nil, fmt.Errorf("publish.retries must not be negative")
	}
	return m, nil
}

// ApplyEnv replaces the relay list with NAP_RELAYS when it is set.
func (m *Manifest) ApplyEnv(lookup func(string) (string, bool)) {
	v, ok := lookup(EnvRelays)
	if !ok {
		return
	}
	m.Relays = SplitRelays(v)
}

// SplitRelays parses a comma-separated relay list, dropping empty entries.
func SplitRelays(s string) []domain.RelayEndpoint {
	var out []domain.RelayEndpoint
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, domain.RelayEndpoint{URL: part})
		}
	}
	return out
}
