// Package model loads class declarations from a project file and resolves
// member types against them.
//
// A project file lists source files, the classes and interfaces they declare
// and the members of each class. Member types are written as type expressions:
//
//	files:
//	  - name: Box.hx
//	    classes:
//	      - name: Box
//	        params: [T]
//	        members:
//	          - name: map
//	            kind: method
//	            params: [U]
//	            signature: "(f:T -> U) -> Box<U>"
package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/hxtype/internal/config"
)

const (
	KindClass     = "class"
	KindInterface = "interface"

	KindMethod = "method"
	KindVar    = "var"

	AccessPublic  = "public"
	AccessPrivate = "private"
)

// Config is the raw content of a project file.
type Config struct {
	Files []FileConfig `yaml:"files"`
}

// FileConfig is one source file.
type FileConfig struct {
	Name    string        `yaml:"name"`
	Classes []ClassConfig `yaml:"classes,omitempty"`
}

// ClassConfig declares a class or interface.
type ClassConfig struct {
	Name string `yaml:"name"`

	// Kind is "class" (default) or "interface".
	Kind string `yaml:"kind,omitempty"`

	// Access is "public" (default) or "private".
	Access string `yaml:"access,omitempty"`

	// Params are the type parameter names, e.g. [K, V].
	Params []string `yaml:"params,omitempty"`

	// Extends and Implements hold type expressions that may refer to Params,
	// e.g. "Box<T>".
	Extends    []string `yaml:"extends,omitempty"`
	Implements []string `yaml:"implements,omitempty"`

	Members []MemberConfig `yaml:"members,omitempty"`
}

// MemberConfig declares a method or field.
type MemberConfig struct {
	Name string `yaml:"name"`

	// Kind is "method" (default) or "var".
	Kind   string `yaml:"kind,omitempty"`
	Access string `yaml:"access,omitempty"`

	// Params are method-level type parameters. They shadow class parameters
	// with the same name.
	Params []string `yaml:"params,omitempty"`

	Signature string `yaml:"signature"`
}

// LoadConfig reads and parses a project file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses project file content.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if len(c.Files) == 0 {
		return fmt.Errorf("%s: no files defined", path)
	}

	declared := make(map[string]bool)
	for _, file := range c.Files {
		for _, class := range file.Classes {
			declared[class.Name] = true
		}
	}

	seenClasses := make(map[string]string) // class -> file
	for i, file := range c.Files {
		if file.Name == "" {
			return fmt.Errorf("%s: files[%d]: name is required", path, i)
		}
		for j, class := range file.Classes {
			if class.Name == "" {
				return fmt.Errorf("%s: files[%d].classes[%d]: name is required", path, i, j)
			}
			if prev, ok := seenClasses[class.Name]; ok {
				return fmt.Errorf("%s: class %s declared in both %s and %s", path, class.Name, prev, file.Name)
			}
			seenClasses[class.Name] = file.Name

			switch class.Kind {
			case "", KindClass, KindInterface:
			default:
				return fmt.Errorf("%s: class %s: unknown kind %q", path, class.Name, class.Kind)
			}
			if err := validateAccess(class.Access); err != nil {
				return fmt.Errorf("%s: class %s: %w", path, class.Name, err)
			}
			if err := validateParams(class.Params, declared); err != nil {
				return fmt.Errorf("%s: class %s: %w", path, class.Name, err)
			}

			seenMembers := make(map[string]bool)
			for k, member := range class.Members {
				if member.Name == "" {
					return fmt.Errorf("%s: class %s: members[%d]: name is required", path, class.Name, k)
				}
				if seenMembers[member.Name] {
					return fmt.Errorf("%s: class %s: duplicate member %s", path, class.Name, member.Name)
				}
				seenMembers[member.Name] = true

				switch member.Kind {
				case "", KindMethod:
				case KindVar:
					if len(member.Params) > 0 {
						return fmt.Errorf("%s: %s.%s: type parameters are only valid on methods", path, class.Name, member.Name)
					}
				default:
					return fmt.Errorf("%s: %s.%s: unknown kind %q", path, class.Name, member.Name, member.Kind)
				}
				if err := validateAccess(member.Access); err != nil {
					return fmt.Errorf("%s: %s.%s: %w", path, class.Name, member.Name, err)
				}
				if err := validateParams(member.Params, declared); err != nil {
					return fmt.Errorf("%s: %s.%s: %w", path, class.Name, member.Name, err)
				}
				if member.Signature == "" {
					return fmt.Errorf("%s: %s.%s: signature is required", path, class.Name, member.Name)
				}
			}
		}
	}
	return nil
}

func validateAccess(access string) error {
	switch access {
	case "", AccessPublic, AccessPrivate:
		return nil
	}
	return fmt.Errorf("unknown access %q", access)
}

// validateParams rejects names that would resolve to a class instead of a
// type parameter.
func validateParams(params []string, declared map[string]bool) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p == "" {
			return fmt.Errorf("empty type parameter name")
		}
		if config.IsBuiltinTypeName(p) {
			return fmt.Errorf("type parameter %s shadows a built-in type", p)
		}
		if declared[p] {
			return fmt.Errorf("type parameter %s shadows class %s", p, p)
		}
		if seen[p] {
			return fmt.Errorf("duplicate type parameter %s", p)
		}
		seen[p] = true
	}
	return nil
}

func (c *Config) setDefaults() {
	for i := range c.Files {
		for j := range c.Files[i].Classes {
			class := &c.Files[i].Classes[j]
			if class.Kind == "" {
				class.Kind = KindClass
			}
			if class.Access == "" {
				class.Access = AccessPublic
			}
			for k := range class.Members {
				member := &class.Members[k]
				if member.Kind == "" {
					member.Kind = KindMethod
				}
				if member.Access == "" {
					member.Access = AccessPublic
				}
			}
		}
	}
}
