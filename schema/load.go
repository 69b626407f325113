package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogDoc is the YAML document layout accepted by Load.
//
//	tables:
//	  - name: users
//	    schema: main
//	    columns:
//	      - {name: id, type: integer, pk: true}
//	      - {name: email, type: text, nullable: true}
type catalogDoc struct {
	Tables []tableDoc `yaml:"tables"`
}

type tableDoc struct {
	Name    string      `yaml:"name"`
	Schema  string      `yaml:"schema"`
	Columns []columnDoc `yaml:"columns"`
}

type columnDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
	PK       bool   `yaml:"pk"`
}

// Load reads a YAML catalog document and builds a MemModel from it.
func Load(r io.Reader) (*MemModel, error) {
	var doc catalogDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	var tables []*Table
	for _, td := range doc.Tables {
		if td.Name == "" {
			return nil, fmt.Errorf("catalog table with no name")
		}
		t := &Table{Schema: td.Schema, Name: td.Name}
		for _, cd := range td.Columns {
			base, ok := BaseTypeOf(cd.Type)
			if !ok {
				return nil, fmt.Errorf("table %s: column %s: unknown type %q", td.Name, cd.Name, cd.Type)
			}
			t.Columns = append(t.Columns, Column{
				Name:       cd.Name,
				Type:       ColumnType{Base: base, Nullable: cd.Nullable},
				PrimaryKey: cd.PK,
			})
		}
		if len(t.Columns) == 0 {
			return nil, fmt.Errorf("table %s has no columns", td.Name)
		}
		tables = append(tables, t)
	}
	return NewMemModel(tables), nil
}

// LoadFile reads a YAML catalog from the file at path.
func LoadFile(path string) (*MemModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
