package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"spmadrid/collections-reports/internal/reporterror"
)

type yamlDocument struct {
	Agents       []Agent         `yaml:"agents"`
	BankStatus   []StatusMapping `yaml:"bank_status"`
	ReasonCodes  []string        `yaml:"reason_codes"`
	Dispositions []string        `yaml:"dispositions"`
	Accounts     []AccountMeta   `yaml:"accounts"`
	FieldResults []FieldResult   `yaml:"field_results"`
}

// YAMLSource reads every dataset from one YAML document. The file is read once, on first use.
type YAMLSource struct {
	path string

	once sync.Once
	doc  yamlDocument
	err  error
}

// NewYAMLSource creates a source for the YAML file at path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

func (s *YAMLSource) load() (yamlDocument, error) {
	s.once.Do(func() {
		path, err := FindFile(s.path)
		if err != nil {
			s.err = &reporterror.MissingReferenceError{Name: filepath.Base(s.path), Path: s.path, Err: err}
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.err = &reporterror.MissingReferenceError{Name: filepath.Base(path), Path: path, Err: err}
			return
		}
		if err := yaml.Unmarshal(data, &s.doc); err != nil {
			s.err = fmt.Errorf("error parsing reference file %s: %w", path, err)
		}
	})
	return s.doc, s.err
}

func (s *YAMLSource) AgentRoster(context.Context) ([]Agent, error) {
	doc, err := s.load()
	return doc.Agents, err
}

func (s *YAMLSource) BankStatusMap(context.Context) ([]StatusMapping, error) {
	doc, err := s.load()
	return doc.BankStatus, err
}

func (s *YAMLSource) ReasonCodes(context.Context) ([]string, error) {
	doc, err := s.load()
	return doc.ReasonCodes, err
}

func (s *YAMLSource) Dispositions(context.Context) ([]string, error) {
	doc, err := s.load()
	return doc.Dispositions, err
}

// AccountMetadata filters the document's accounts by id.
func (s *YAMLSource) AccountMetadata(_ context.Context, ids []string) ([]AccountMeta, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	want := keySet(ids, AccountKey)
	var out []AccountMeta
	for _, a := range doc.Accounts {
		if _, ok := want[AccountKey(a.AccountID)]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// FieldResults filters the document's field results by ChCode.
func (s *YAMLSource) FieldResults(_ context.Context, chcodes []string) ([]FieldResult, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	want := keySet(chcodes, func(s string) string { return s })
	var out []FieldResult
	for _, f := range doc.FieldResults {
		if _, ok := want[f.ChCode]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func keySet(keys []string, norm func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[norm(k)] = struct{}{}
	}
	return set
}

// FindFile looks for a reference file in the standard locations: the path itself,
// ./database, ./config and ~/.collections-reports.
func FindFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("database", filename),
		filepath.Join("config", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".collections-reports", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}
