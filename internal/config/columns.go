package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v2"
)

// Column configures one measure or output column.
type Column struct {
	Name    string `json:"-" yaml:"-" validate:"required"`
	Header  string `json:"header,omitempty" yaml:"header,omitempty"`
	Cutoff  *int   `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Exclude bool   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Title returns the column header, defaulting to the column name.
func (c Column) Title() string {
	if c.Header != "" {
		return c.Header
	}
	return c.Name
}

// Limit returns the cutoff above which integer values are reported as
// CUTOFF. Zero or negative cutoffs disable it.
func (c Column) Limit() (int, bool) {
	if c.Cutoff == nil || *c.Cutoff <= 0 {
		return 0, false
	}
	return *c.Cutoff, true
}

// Columns is an ordered set of columns. In JSON and YAML it is an object
// keyed by column name; key order is kept.
type Columns []Column

func columns(names ...string) Columns {
	out := make(Columns, len(names))
	for i, n := range names {
		out[i] = Column{Name: n}
	}
	return out
}

func (cs Columns) exclude(names ...string) Columns {
	for _, n := range names {
		for i := range cs {
			if cs[i].Name == n {
				cs[i].Exclude = true
			}
		}
	}
	return cs
}

// Names returns every column name, excluded ones included.
func (cs Columns) Names() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// Included returns the columns not marked exclude.
func (cs Columns) Included() Columns {
	var out Columns
	for _, c := range cs {
		if !c.Exclude {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the column with the given name.
func (cs Columns) Lookup(name string) (Column, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Merge concatenates column sets. A name keeps its first position and takes
// the settings of its last occurrence.
func Merge(sets ...Columns) Columns {
	var out Columns
	index := make(map[string]int)
	for _, set := range sets {
		for _, c := range set {
			if i, ok := index[c.Name]; ok {
				out[i] = c
				continue
			}
			index[c.Name] = len(out)
			out = append(out, c)
		}
	}
	return out
}

func (cs *Columns) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("columns: expected object, got %v", tok)
	}
	var out Columns
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var c Column
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		c.Name = name
		out = append(out, c)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*cs = out
	return nil
}

func (cs Columns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (cs *Columns) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var items yaml.MapSlice
	if err := unmarshal(&items); err != nil {
		return err
	}
	out := make(Columns, 0, len(items))
	for _, item := range items {
		name := fmt.Sprint(item.Key)
		var c Column
		if item.Value != nil {
			raw, err := yaml.Marshal(item.Value)
			if err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
			if err := yaml.Unmarshal(raw, &c); err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
		}
		c.Name = name
		out = append(out, c)
	}
	*cs = out
	return nil
}

func (cs Columns) MarshalYAML() (interface{}, error) {
	items := make(yaml.MapSlice, len(cs))
	for i, c := range cs {
		items[i] = yaml.MapItem{Key: c.Name, Value: c}
	}
	return items, nil
}
