package reference

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"

	"spmadrid/collections-reports/internal/fileutils"
	"spmadrid/collections-reports/internal/ingest"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/reporterror"
)

// Reference table names and their columns.
const (
	BankStatusFile   = "BANK_STATUS"
	ReasonCodesFile  = "RFD_LISTS"
	DispositionsFile = "DISPOSITIONS"

	colCMSStatus   = "CMS STATUS"
	colBankStatus  = "BANK STATUS"
	colRFDCode     = "RFD CODE"
	colAgentID     = "VOLARE USER"
	colAgentName   = "FULL NAME"
	colDisposition = "DISPOSITION"
)

// DefaultRosters maps bucket labels to their roster file names.
var DefaultRosters = map[string]string{
	"Bucket 1":   "BUCKET1_AGENT",
	"Bucket 2":   "BUCKET2_AGENT",
	"Bucket 5&6": "BUCKET5&6_AGENT",
}

type rfdRow struct {
	Code string `csv:"RFD CODE"`
}

type dispositionRow struct {
	Disposition string `csv:"DISPOSITION"`
}

// WorkbookSource reads the reference tables from a directory of workbooks, one table per file.
// Each table may be .xlsx, .xls or .csv. DISPOSITIONS is optional; every other table is mandatory.
type WorkbookSource struct {
	dir     string
	rosters map[string]string
	reader  *ingest.Reader
	logger  logging.Logger
}

// NewWorkbookSource creates a source over dir. A nil rosters map uses DefaultRosters.
func NewWorkbookSource(dir string, rosters map[string]string, logger logging.Logger) *WorkbookSource {
	if rosters == nil {
		rosters = DefaultRosters
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &WorkbookSource{dir: dir, rosters: rosters, reader: ingest.NewReader(logger), logger: logger}
}

// AgentRoster reads every bucket roster. Buckets are read in label order.
func (s *WorkbookSource) AgentRoster(context.Context) ([]Agent, error) {
	labels := make([]string, 0, len(s.rosters))
	for label := range s.rosters {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var agents []Agent
	for _, label := range labels {
		rows, err := readTable[Agent](s, s.rosters[label], true, colAgentID, colAgentName)
		if err != nil {
			return nil, err
		}
		for _, a := range rows {
			a.Bucket = label
			agents = append(agents, a)
		}
	}
	return agents, nil
}

func (s *WorkbookSource) BankStatusMap(context.Context) ([]StatusMapping, error) {
	return readTable[StatusMapping](s, BankStatusFile, true, colCMSStatus, colBankStatus)
}

func (s *WorkbookSource) ReasonCodes(context.Context) ([]string, error) {
	rows, err := readTable[rfdRow](s, ReasonCodesFile, true, colRFDCode)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.Code)
	}
	return codes, nil
}

func (s *WorkbookSource) Dispositions(context.Context) ([]string, error) {
	rows, err := readTable[dispositionRow](s, DispositionsFile, false, colDisposition)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Disposition)
	}
	return out, nil
}

func (s *WorkbookSource) locate(name string) (string, bool) {
	return fileutils.FindWithExtension(s.dir, name, fileutils.SpreadsheetExtensions)
}

// readTable loads one reference table into T. Workbooks are read through ingest with the
// given required columns and mapped onto T's csv tags; .csv files are unmarshalled by gocsv.
func readTable[T any](s *WorkbookSource, name string, mandatory bool, required ...string) ([]T, error) {
	path, ok := s.locate(name)
	if !ok {
		if !mandatory {
			s.logger.Debug("Optional reference table not found", logging.F(logging.FieldSource, name))
			return nil, nil
		}
		return nil, &reporterror.MissingReferenceError{
			Name: name,
			Path: filepath.Join(s.dir, name+".xlsx"),
			Err:  os.ErrNotExist,
		}
	}

	var rows []T
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, &reporterror.MissingReferenceError{Name: name, Path: path, Err: err}
		}
		defer f.Close()
		if err := gocsv.UnmarshalFile(f, &rows); err != nil {
			return nil, fmt.Errorf("error parsing reference table %s: %w", path, err)
		}
		s.logger.Debug("Loaded reference table",
			logging.F(logging.FieldSource, path), logging.F(logging.FieldCount, len(rows)))
		return rows, nil
	}

	tbl, err := s.reader.ReadFile(path, ingest.Options{Required: required, DropBlankRows: true})
	if err != nil {
		return nil, fmt.Errorf("error reading reference table %s: %w", name, err)
	}
	records := [][]string{tbl.Columns()}
	for _, r := range tbl.Rows {
		rec := make([]string, 0, r.Len())
		for _, v := range r.Values() {
			rec = append(rec, v.String())
		}
		records = append(records, rec)
	}
	if err := gocsv.UnmarshalCSV(&recordReader{records: records}, &rows); err != nil {
		return nil, fmt.Errorf("error mapping reference table %s: %w", name, err)
	}
	s.logger.Debug("Loaded reference table",
		logging.F(logging.FieldSource, path), logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// recordReader feeds already-decoded records to gocsv.
type recordReader struct {
	records [][]string
	next    int
}

func (r *recordReader) Read() ([]string, error) {
	if r.next >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.next]
	r.next++
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.next:]
	r.next = len(r.records)
	return rest, nil
}
