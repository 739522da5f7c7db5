package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Fepozopo/imged/pkg/imgops"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeString ParamType = "string"
	ParamTypeEnum   ParamType = "enum"
	ParamTypeColor  ParamType = "color"
	ParamTypePath   ParamType = "path"
)

// ValidationRule is a machine-friendly representation of the constraints
// a client can check before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

// GenerateTooltip produces a tooltip string from a CommandSpec.
func GenerateTooltip(c CommandSpec) string {
	var sb strings.Builder
	sb.WriteString(c.Usage)
	sb.WriteString("\n  ")
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Aliases) > 0 {
		sb.WriteString(" (aliases: " + strings.Join(c.Aliases, ", ") + ")")
	}
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "\n  - %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
	}
	return sb.String()
}

// GenerateValidationRules creates ValidationRule entries from a CommandSpec.
func GenerateValidationRules(c CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "float":
			t = ParamTypeFloat
		case "enum":
			t = ParamTypeEnum
		case "color":
			t = ParamTypeColor
		case "path":
			t = ParamTypePath
		default:
			t = ParamTypeString
		}
		rules[a.Name] = ValidationRule{Type: t, Required: a.Required, EnumOptions: a.Options, Hint: a.Description, Example: a.Default}
	}
	return rules
}

// MetaStore indexes Commands by name and alias.
type MetaStore struct {
	Commands []CommandSpec
	byName   map[string]CommandSpec
}

// NewMetaStore creates a MetaStore from a CommandSpec list.
func NewMetaStore(cmds []CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
		for _, a := range c.Aliases {
			m.byName[a] = c
		}
	}
	return m
}

// Lookup resolves a command by exact name, alias, or unique name prefix.
func (m *MetaStore) Lookup(name string) (CommandSpec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := m.byName[name]; ok {
		return c, nil
	}
	var matches []string
	for _, c := range m.Commands {
		if strings.HasPrefix(c.Name, name) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 0:
		return CommandSpec{}, fmt.Errorf("unknown command: %s", name)
	case 1:
		return m.byName[matches[0]], nil
	default:
		return CommandSpec{}, fmt.Errorf("ambiguous command %q, candidates: %s", name, strings.Join(matches, ", "))
	}
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, err := m.Lookup(name)
	if err != nil {
		return "", nil, err
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs validates args against the command's metadata and returns
// them in canonical textual form. Missing optional args come back empty.
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, err := store.Lookup(cmdName)
	if err != nil {
		return nil, err
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d argument(s), got %d", c.Name, len(c.Args), len(args))
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypeEnum:
			k, err := imgops.ParseKind(raw)
			if err == nil && slices.Contains(vr.EnumOptions, k.String()) {
				out[i] = k.String()
				break
			}
			if low := strings.ToLower(raw); slices.Contains(vr.EnumOptions, low) {
				out[i] = low
				break
			}
			return nil, fmt.Errorf("parameter %s: %q is not one of %s", a.Name, raw, strings.Join(vr.EnumOptions, ", "))
		case ParamTypeColor:
			c, err := imgops.ParseColor(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = imgops.FormatColor(c)
		case ParamTypePath, ParamTypeString:
			out[i] = raw
		default:
			return nil, fmt.Errorf("parameter %s: unsupported param type %q", a.Name, vr.Type)
		}
	}
	return out, nil
}
