package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/facets/types"
	"github.com/gofrs/flock"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// datasetFile is the on-disk dataset structure, shared between the JSON
// and YAML formats.
type datasetFile struct {
	Model   modelSpec                `json:"model" yaml:"model"`
	Related map[string][]refSpec     `json:"related,omitempty" yaml:"related,omitempty"`
	Records []map[string]interface{} `json:"records" yaml:"records"`
}

// modelSpec declares the schema of a dataset file
type modelSpec struct {
	Name       string     `json:"name" yaml:"name"`
	Attributes []attrSpec `json:"attributes" yaml:"attributes"`
}

// attrSpec declares one attribute. Kind takes the names "plain",
// "enumerated", "ref", "many-ref", "date" and "numeric"; Related names an
// entry of the file's related section.
type attrSpec struct {
	Name     string       `json:"name" yaml:"name"`
	Kind     string       `json:"kind" yaml:"kind"`
	Nullable bool         `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Label    string       `json:"label,omitempty" yaml:"label,omitempty"`
	Integer  bool         `json:"integer,omitempty" yaml:"integer,omitempty"`
	Choices  []choiceSpec `json:"choices,omitempty" yaml:"choices,omitempty"`
	Related  string       `json:"related,omitempty" yaml:"related,omitempty"`
}

// choiceSpec is one declared value of an enumerated attribute
type choiceSpec struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// refSpec is one record of a related set
type refSpec struct {
	PK    string `json:"pk" yaml:"pk"`
	Label string `json:"label" yaml:"label"`
}

// Load reads a dataset file and builds a store from it. The format is
// chosen by extension: .yaml and .yml decode as YAML, everything else as
// JSON. A file lock guards the read so loads and saves from concurrent
// processes do not interleave.
func Load(path string) (*Store, error) {
	data, err := readLocked(path)
	if err != nil {
		return nil, err
	}

	var file datasetFile
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}

	return buildStore(&file)
}

// Save writes a store back as a dataset file, in the format the path's
// extension names. The write is atomic: a temp file in the same
// directory is renamed over the destination while holding the file lock.
func Save(path string, s *Store) error {
	file := &datasetFile{
		Model:   specFromModel(s.model),
		Related: relatedSpecs(s.model),
		Records: make([]map[string]interface{}, len(s.records)),
	}
	for i, rec := range s.records {
		raw := make(map[string]interface{}, len(rec.Attrs)+1)
		raw["uuid"] = rec.UUID
		for name, v := range rec.Attrs {
			raw[name] = rawValue(v)
		}
		file.Records[i] = raw
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(file)
	} else {
		data, err = json.MarshalIndent(file, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	return writeLocked(path, data)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// buildStore resolves a decoded dataset file into a validated store
func buildStore(file *datasetFile) (*Store, error) {
	related := make(map[string]*RelatedSet, len(file.Related))
	for name, specs := range file.Related {
		refs := make([]types.Ref, len(specs))
		for i, r := range specs {
			refs[i] = types.Ref{PK: r.PK, Label: r.Label}
		}
		related[name] = NewRelatedSet(name, refs)
	}

	attrs := make([]types.Attribute, len(file.Model.Attributes))
	for i, spec := range file.Model.Attributes {
		kind, ok := types.ParseKind(spec.Kind)
		if !ok {
			return nil, fmt.Errorf("attribute %q: unknown kind %q", spec.Name, spec.Kind)
		}
		attr := types.Attribute{
			Name:     spec.Name,
			Kind:     kind,
			Nullable: spec.Nullable,
			Label:    spec.Label,
			Integer:  spec.Integer,
		}
		for _, c := range spec.Choices {
			attr.Choices = append(attr.Choices, types.EnumChoice{Value: c.Value, Label: c.Label})
		}
		if spec.Related != "" {
			rs, ok := related[spec.Related]
			if !ok {
				return nil, fmt.Errorf("attribute %q: no related set %q", spec.Name, spec.Related)
			}
			attr.Related = rs
		}
		attrs[i] = attr
	}

	model := types.NewModel(file.Model.Name, attrs)

	records := make([]Record, len(file.Records))
	for i, raw := range file.Records {
		rec := Record{Attrs: make(map[string]interface{}, len(raw))}
		for name, v := range raw {
			if name == "uuid" {
				rec.UUID, _ = v.(string)
				continue
			}
			rec.Attrs[name] = v
		}
		records[i] = rec
	}

	return New(model, records)
}

func specFromModel(m *types.Model) modelSpec {
	spec := modelSpec{Name: m.Name()}
	for _, attr := range m.Attributes() {
		as := attrSpec{
			Name:     attr.Name,
			Kind:     attr.Kind.String(),
			Nullable: attr.Nullable,
			Label:    attr.Label,
			Integer:  attr.Integer,
		}
		for _, c := range attr.Choices {
			as.Choices = append(as.Choices, choiceSpec{Value: c.Value, Label: c.Label})
		}
		if attr.Related != nil {
			as.Related = attr.Related.Name()
		}
		spec.Attributes = append(spec.Attributes, as)
	}
	return spec
}

func relatedSpecs(m *types.Model) map[string][]refSpec {
	out := make(map[string][]refSpec)
	for _, attr := range m.Attributes() {
		rs, ok := attr.Related.(*RelatedSet)
		if !ok || rs == nil {
			continue
		}
		if _, done := out[rs.name]; done {
			continue
		}
		specs := make([]refSpec, len(rs.refs))
		for i, r := range rs.refs {
			specs[i] = refSpec{PK: r.PK, Label: r.Label}
		}
		out[rs.name] = specs
	}
	return out
}

// rawValue converts a typed attribute value back to its file form
func rawValue(v interface{}) interface{} {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return v
	}
}

func lockFor(path string) *flock.Flock {
	return flock.New(path + ".lock")
}

func acquire(lock *flock.Flock) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire file lock")
	}
	return nil
}

func readLocked(path string) ([]byte, error) {
	lock := lockFor(path)
	if err := acquire(lock); err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func writeLocked(path string, data []byte) error {
	lock := lockFor(path)
	if err := acquire(lock); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
