// Package input reads truss definitions from YAML, JSON or plain-text files.
//
// YAML and JSON share one schema:
//
//	name: roof
//	nodes:
//	  - {x: 0, y: 0, fixed_x: true, fixed_y: true}
//	  - {x: 4, y: 0, fixed_y: true}
//	  - {x: 2, y: 3}
//	members:
//	  - {n1: 0, n2: 2, area: 0.002, modulus: 2.0e11}
//	  - {n1: 1, n2: 2}
//	loads:
//	  - {node: 2, fx: 0, fy: -1000}
//
// The plain-text form has one record per line and '#' comments:
//
//	node 0 0 1 1
//	node 4 0 0 1
//	member 0 1 [area modulus]
//	load 2 0 -1000
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/trussim/internal/truss"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownFormat indicates a file extension no reader handles.
	ErrUnknownFormat = errors.New("input: unknown file format")

	// ErrSyntax indicates a malformed record.
	ErrSyntax = errors.New("input: syntax error")
)

// ParseError locates a failure inside an input file.
type ParseError struct {
	File    string
	Line    int
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

type File struct {
	Name    string       `yaml:"name,omitempty" json:"name,omitempty"`
	Nodes   []NodeSpec   `yaml:"nodes" json:"nodes"`
	Members []MemberSpec `yaml:"members" json:"members"`
	Loads   []LoadSpec   `yaml:"loads,omitempty" json:"loads,omitempty"`
}

type NodeSpec struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	FixedX bool    `yaml:"fixed_x,omitempty" json:"fixed_x,omitempty"`
	FixedY bool    `yaml:"fixed_y,omitempty" json:"fixed_y,omitempty"`
}

type MemberSpec struct {
	N1      int      `yaml:"n1" json:"n1"`
	N2      int      `yaml:"n2" json:"n2"`
	Area    *float64 `yaml:"area,omitempty" json:"area,omitempty"`
	Modulus *float64 `yaml:"modulus,omitempty" json:"modulus,omitempty"`
}

type LoadSpec struct {
	Node int     `yaml:"node" json:"node"`
	Fx   float64 `yaml:"fx" json:"fx"`
	Fy   float64 `yaml:"fy" json:"fy"`
}

// Build turns the file contents into a validated model.
func (f *File) Build() (*truss.Model, error) {
	m := truss.New()
	m.Name = f.Name
	for _, n := range f.Nodes {
		m.AddNode(n.X, n.Y, n.FixedX, n.FixedY)
	}
	for _, s := range f.Members {
		var opts []truss.MemberOption
		if s.Area != nil {
			opts = append(opts, truss.WithArea(*s.Area))
		}
		if s.Modulus != nil {
			opts = append(opts, truss.WithModulus(*s.Modulus))
		}
		if _, err := m.AddMember(s.N1, s.N2, opts...); err != nil {
			return nil, err
		}
	}
	for _, l := range f.Loads {
		if err := m.AddLoad(l.Node, l.Fx, l.Fy); err != nil {
			return nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromModel is the inverse of Build.
func FromModel(m *truss.Model) *File {
	f := &File{Name: m.Name}
	for _, n := range m.Nodes() {
		f.Nodes = append(f.Nodes, NodeSpec{X: n.X, Y: n.Y, FixedX: n.FixedX, FixedY: n.FixedY})
	}
	for _, mem := range m.Members() {
		a, e := mem.Area, mem.Modulus
		f.Members = append(f.Members, MemberSpec{N1: mem.Node1, N2: mem.Node2, Area: &a, Modulus: &e})
	}
	for _, l := range m.Loads() {
		f.Loads = append(f.Loads, LoadSpec{Node: l.Node, Fx: l.Fx, Fy: l.Fy})
	}
	return f
}

func ParseYAML(data []byte) (*truss.Model, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return f.Build()
}

func ParseJSON(data []byte) (*truss.Model, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return f.Build()
}

// Load reads path, choosing the reader by extension. Files without a
// .yaml, .yml or .json extension are read as plain text.
func Load(path string) (*truss.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m *truss.Model
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	case ".json":
		m, err = ParseJSON(data)
	case ".txt", ".truss", "":
		m, err = ParseText(string(data))
	default:
		return nil, &ParseError{File: path, Wrapped: fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))}
	}
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
			return nil, pe
		}
		return nil, &ParseError{File: path, Wrapped: err}
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Save writes m as YAML or JSON depending on the extension of path.
func Save(path string, m *truss.Model) error {
	f := FromModel(m)
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(f, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
