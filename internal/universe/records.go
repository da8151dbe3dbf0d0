package universe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SystemRecord is one row of a systems file.
type SystemRecord struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Security string `yaml:"security" json:"security"`
}

// ConnectionRecord is one row of a connections file: a system and the
// delimiter-separated list of systems it jumps to.
type ConnectionRecord struct {
	SystemID  string `yaml:"systemId" json:"systemId"`
	JumpNodes string `yaml:"jumpNodes" json:"jumpNodes"`
}

// Neighbors splits JumpNodes on delim, dropping blanks.
func (c ConnectionRecord) Neighbors(delim string) []string {
	var out []string
	for _, part := range strings.Split(c.JumpNodes, delim) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SecurityIs selects systems whose security field equals status.
func SecurityIs(status string) func(SystemRecord) bool {
	return func(r SystemRecord) bool { return r.Security == status }
}

// BuildOptions controls how records become a Graph.
type BuildOptions struct {
	Include   func(SystemRecord) bool // nil includes every system
	Delimiter string                  // defaults to ":"
}

// Build assembles a graph. Included systems become start/target candidates;
// every ID mentioned by a connection becomes a traversable node.
func Build(systems []SystemRecord, connections []ConnectionRecord, opts BuildOptions) *Graph {
	delim := opts.Delimiter
	if delim == "" {
		delim = ":"
	}

	g := NewGraph()
	for _, s := range systems {
		if s.ID == "" {
			continue
		}
		if opts.Include == nil || opts.Include(s) {
			g.AddSystem(s.ID)
		}
	}
	for _, c := range connections {
		if c.SystemID == "" {
			continue
		}
		g.node(c.SystemID)
		for _, n := range c.Neighbors(delim) {
			g.Connect(c.SystemID, n)
		}
	}
	return g
}

// DecodeSystems reads a YAML or JSON list of system records.
func DecodeSystems(r io.Reader) ([]SystemRecord, error) {
	var records []SystemRecord
	if err := decodeList(r, &records); err != nil {
		return nil, fmt.Errorf("failed to decode systems: %w", err)
	}
	return records, nil
}

// DecodeConnections reads a YAML or JSON list of connection records.
func DecodeConnections(r io.Reader) ([]ConnectionRecord, error) {
	var records []ConnectionRecord
	if err := decodeList(r, &records); err != nil {
		return nil, fmt.Errorf("failed to decode connections: %w", err)
	}
	return records, nil
}

// decodeList uses the YAML decoder for both formats; JSON is valid YAML.
func decodeList(r io.Reader, out any) error {
	err := yaml.NewDecoder(r).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ReadSystemsFile decodes a systems file.
func ReadSystemsFile(path string) ([]SystemRecord, error) {
	return readFile(path, DecodeSystems)
}

// ReadConnectionsFile decodes a connections file.
func ReadConnectionsFile(path string) ([]ConnectionRecord, error) {
	return readFile(path, DecodeConnections)
}

// LoadFiles reads both record files and builds the graph.
func LoadFiles(systemsPath, connectionsPath string, opts BuildOptions) (*Graph, error) {
	systems, err := ReadSystemsFile(systemsPath)
	if err != nil {
		return nil, err
	}
	connections, err := ReadConnectionsFile(connectionsPath)
	if err != nil {
		return nil, err
	}
	return Build(systems, connections, opts), nil
}

func readFile[T any](path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return decode(f)
}
