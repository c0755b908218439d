package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/repository"

	"go.uber.org/zap"
)

var (
	// ErrUnsupportedFormat is returned when a data file has an extension the
	// loader does not understand.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

	timeLayouts = []string{
		"2006-Jan-02 15:04",
		domain.TimeLayout,
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC3339,
	}
)

// Service loads the NEO catalogue and the close approach data product and
// links them into an in-memory database.
type Service struct {
	neoPath      string
	approachPath string
	logger       *zap.Logger
}

// Option configures the ingestion service.
type Option func(*Service)

// WithLogger replaces the default nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an ingestion service reading the catalogue CSV from
// neoPath and the approach JSON from approachPath.
func NewService(neoPath, approachPath string, opts ...Option) *Service {
	s := &Service{
		neoPath:      neoPath,
		approachPath: approachPath,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary reports what a load brought in.
type Summary struct {
	Neos              int           `json:"neos"`
	Approaches        int           `json:"approaches"`
	SkippedNeos       int           `json:"skippedNeos"`
	SkippedApproaches int           `json:"skippedApproaches"`
	Elapsed           time.Duration `json:"elapsed"`
}

// Load reads both data products and returns the linked database. Rows
// missing their designation or carrying unparseable values are counted and
// skipped rather than failing the load.
func (s *Service) Load(ctx context.Context) (*repository.NeoDatabase, Summary, error) {
	start := time.Now()

	neos, skippedNeos, err := s.loadNeoFile()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to load neo catalogue: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	approaches, skippedApproaches, err := s.loadApproachFile()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to load close approaches: %w", err)
	}

	db := repository.NewNeoDatabase(neos, approaches)
	summary := Summary{
		Neos:              len(neos),
		Approaches:        len(approaches),
		SkippedNeos:       skippedNeos,
		SkippedApproaches: skippedApproaches,
		Elapsed:           time.Since(start),
	}

	s.logger.Info("data set loaded",
		zap.Int("neos", summary.Neos),
		zap.Int("approaches", summary.Approaches),
		zap.Int("skipped_neos", summary.SkippedNeos),
		zap.Int("skipped_approaches", summary.SkippedApproaches),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return db, summary, nil
}

func (s *Service) loadNeoFile() ([]*domain.NearEarthObject, int, error) {
	if ext := strings.ToLower(filepath.Ext(s.neoPath)); ext != ".csv" {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(s.neoPath)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()
	return LoadNeos(f)
}

func (s *Service) loadApproachFile() ([]*domain.CloseApproach, int, error) {
	if ext := strings.ToLower(filepath.Ext(s.approachPath)); ext != ".json" {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(s.approachPath)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()
	return LoadApproaches(f)
}

// LoadNeos parses the NEO catalogue CSV. Columns are located by header
// name, so column order never matters. The count of skipped rows is
// returned alongside the parsed objects.
func LoadNeos(r io.Reader) ([]*domain.NearEarthObject, int, error) {
	reader := bufio.NewReader(r)
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, errors.New("neo catalogue is empty")
	}

	cols := headerIndex(records[0])
	desIdx, ok := cols["pdes"]
	if !ok {
		return nil, 0, errors.New("neo catalogue has no pdes column")
	}
	nameIdx := optionalColumn(cols, "name")
	diameterIdx := optionalColumn(cols, "diameter")
	phaIdx := optionalColumn(cols, "pha")

	neos := make([]*domain.NearEarthObject, 0, len(records)-1)
	skipped := 0
	for _, record := range records[1:] {
		des := cell(record, desIdx)
		if des == "" {
			skipped++
			continue
		}

		diameter := math.NaN()
		if raw := cell(record, diameterIdx); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				diameter = v
			}
		}

		hazardous := cell(record, phaIdx) == "Y"
		neos = append(neos, domain.NewNearEarthObject(des, cell(record, nameIdx), diameter, hazardous))
	}
	return neos, skipped, nil
}

type approachDocument struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// LoadApproaches parses the close approach JSON data product: an object
// carrying the column names under "fields" and the rows under "data".
// Rows with a missing designation or an unparseable time, distance, or
// velocity are counted and skipped.
func LoadApproaches(r io.Reader) ([]*domain.CloseApproach, int, error) {
	var doc approachDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("failed to decode approach data: %w", err)
	}

	cols := headerIndex(doc.Fields)
	required := []string{"des", "cd", "dist", "v_rel"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("approach data has no %s field", name)
		}
	}
	desIdx := cols["des"]
	cdIdx := cols["cd"]
	distIdx := cols["dist"]
	velIdx := cols["v_rel"]

	approaches := make([]*domain.CloseApproach, 0, len(doc.Data))
	skipped := 0
	for _, row := range doc.Data {
		des := rawCell(row, desIdx)
		if des == "" {
			skipped++
			continue
		}

		t, err := parseTimestamp(rawCell(row, cdIdx))
		if err != nil {
			skipped++
			continue
		}
		distance, err := strconv.ParseFloat(rawCell(row, distIdx), 64)
		if err != nil {
			skipped++
			continue
		}
		velocity, err := strconv.ParseFloat(rawCell(row, velIdx), 64)
		if err != nil {
			skipped++
			continue
		}

		approaches = append(approaches, domain.NewCloseApproach(des, t, distance, velocity))
	}
	return approaches, skipped, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.TrimSpace(name)] = idx
	}
	return cols
}

func optionalColumn(cols map[string]int, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// rawCell renders one JSON row value as a string. The data product mixes
// strings and numbers in its rows.
func rawCell(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", raw)
}
