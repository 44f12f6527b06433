package scenario

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/props/internal/errors"
)

// Property types.
const (
	TypeBool   = "bool"
	TypeInt    = "int"
	TypeString = "string"
	TypeList   = "list"
	TypeSet    = "set"
	TypeMap    = "map"
)

// Binding operations.
const (
	OpAnd          = "and"
	OpOr           = "or"
	OpNot          = "not"
	OpIsEqualTo    = "isEqualTo"
	OpIsNotEqualTo = "isNotEqualTo"
	OpIsEmpty      = "isEmpty"
	OpIsNotEmpty   = "isNotEmpty"
	OpIsTrue       = "isTrue"
	OpIsFalse      = "isFalse"
	OpSize         = "size"
	OpSum          = "sum"
)

// Scenario is a parsed scenario document.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Properties  []PropertySpec `yaml:"properties"`
	Bindings    []BindingSpec  `yaml:"bindings,omitempty"`
	Steps       []Step         `yaml:"steps"`
}

// PropertySpec declares a source property and its initial value.
type PropertySpec struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value any    `yaml:"value,omitempty"`
}

// BindingSpec declares a derived property.
type BindingSpec struct {
	Name    string   `yaml:"name"`
	Op      string   `yaml:"op"`
	Sources []string `yaml:"sources"`

	// Value is the reference value of isEqualTo and isNotEqualTo.
	Value any `yaml:"value,omitempty"`
}

// Step is one mutation or expectation. Exactly one of the operation fields
// must be set; it names the property the step applies to.
type Step struct {
	Set      string `yaml:"set,omitempty"`
	Add      string `yaml:"add,omitempty"`
	Insert   string `yaml:"insert,omitempty"`
	Remove   string `yaml:"remove,omitempty"`
	RemoveAt string `yaml:"removeAt,omitempty"`
	Put      string `yaml:"put,omitempty"`
	Clear    string `yaml:"clear,omitempty"`
	Dispose  string `yaml:"dispose,omitempty"`

	Expect map[string]any `yaml:"expect,omitempty"`

	Value   any            `yaml:"value,omitempty"`
	Values  []any          `yaml:"values,omitempty"`
	Index   int            `yaml:"index,omitempty"`
	Entries map[string]any `yaml:"entries,omitempty"`
}

// Op returns the step's operation name and target. It returns "" when no
// or several operations are set.
func (s Step) Op() (op, target string) {
	n := 0
	pick := func(name, value string) {
		if value != "" {
			op, target = name, value
			n++
		}
	}
	pick("set", s.Set)
	pick("add", s.Add)
	pick("insert", s.Insert)
	pick("remove", s.Remove)
	pick("removeAt", s.RemoveAt)
	pick("put", s.Put)
	pick("clear", s.Clear)
	pick("dispose", s.Dispose)
	if len(s.Expect) > 0 {
		op, target = "expect", ""
		n++
	}
	if n != 1 {
		return "", ""
	}
	return op, target
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("S001").WithDetail(path).Wrap(err)
	}
	return Parse(data)
}

// Parse decodes a scenario document and validates its structure.
// Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.New("S002").WithDetail("document is empty")
		}
		return nil, errors.New("S002").WithDetail(err.Error()).Wrap(err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var (
	knownTypes = map[string]bool{
		TypeBool: true, TypeInt: true, TypeString: true,
		TypeList: true, TypeSet: true, TypeMap: true,
	}
	knownOps = map[string]bool{
		OpAnd: true, OpOr: true, OpNot: true,
		OpIsEqualTo: true, OpIsNotEqualTo: true,
		OpIsEmpty: true, OpIsNotEmpty: true,
		OpIsTrue: true, OpIsFalse: true,
		OpSize: true, OpSum: true,
	}
)

// Validate checks names, types, operations and step shapes. References to
// properties are resolved when the scenario runs.
func (s *Scenario) Validate() error {
	seen := make(map[string]bool)
	declare := func(name string) error {
		if name == "" {
			return errors.New("S004").WithDetail("property or binding without a name")
		}
		if seen[name] {
			return errors.New("S004").WithDetailf("%q is declared twice", name)
		}
		seen[name] = true
		return nil
	}

	for _, p := range s.Properties {
		if err := declare(p.Name); err != nil {
			return err
		}
		if !knownTypes[p.Type] {
			return errors.New("S004").WithDetailf("property %q has unknown type %q", p.Name, p.Type)
		}
	}
	for _, b := range s.Bindings {
		if err := declare(b.Name); err != nil {
			return err
		}
		if !knownOps[b.Op] {
			return errors.New("S004").WithDetailf("binding %q has unknown op %q", b.Name, b.Op)
		}
	}
	for i, step := range s.Steps {
		if op, _ := step.Op(); op == "" {
			return errors.New("S004").WithDetailf("step %d must set exactly one operation", i+1)
		}
	}
	return nil
}
