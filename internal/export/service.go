package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/query"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for output formats the service cannot
// produce.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format enumerates the supported output formats.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat normalizes a format name. A leading dot is accepted so file
// extensions parse directly.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "."))) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// FormatForPath infers the output format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// columns is the header of every tabular export, in output order.
var columns = []string{
	"datetime_utc",
	"distance_au",
	"velocity_km_s",
	"designation",
	"name",
	"diameter_km",
	"potentially_hazardous",
}

// Service writes query results in the supported output formats.
type Service struct {
	maxRows int
	logger  *zap.Logger
}

// Option configures the export service.
type Option func(*Service)

// WithMaxRows caps the number of rows any export will write. Zero means
// no cap.
func WithMaxRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// WithLogger replaces the default nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an export service.
func NewService(opts ...Option) *Service {
	s := &Service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write streams the approaches to w in the given format and returns the
// number of data rows written.
func (s *Service) Write(w io.Writer, format Format, stream query.Stream) (int, error) {
	if s.maxRows > 0 {
		stream = query.Limited(stream, s.maxRows)
	}

	counter := &countingWriter{writer: w}
	start := time.Now()

	var rows int
	var err error
	switch format {
	case FormatCSV:
		rows, err = WriteCSV(counter, stream)
	case FormatJSON:
		rows, err = WriteJSON(counter, stream)
	case FormatXLSX:
		rows, err = WriteXLSX(counter, stream)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return rows, err
	}

	s.logger.Info("export written",
		zap.String("format", string(format)),
		zap.Int("rows", rows),
		zap.Int64("bytes", counter.count),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rows, nil
}

// WriteFile writes the stream to path, inferring the format from the file
// extension.
func (s *Service) WriteFile(path string, stream query.Stream) (int, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	buffered := bufio.NewWriterSize(f, 1<<20)
	rows, err := s.Write(buffered, format, stream)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return rows, err
	}
	if err := buffered.Flush(); err != nil {
		_ = f.Close()
		return rows, fmt.Errorf("flush export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return rows, fmt.Errorf("close export file: %w", err)
	}
	return rows, nil
}

// WriteCSV writes the stream as CSV. The header is always written, even
// for an empty result. An unknown diameter is written as "nan", the
// hazardous flag as "True"/"False".
func WriteCSV(w io.Writer, stream query.Stream) (int, error) {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(columns); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for stream.Next() {
		if err := csvWriter.Write(csvRecord(stream.Value())); err != nil {
			return rows, fmt.Errorf("write row: %w", err)
		}
		rows++
	}
	if err := stream.Err(); err != nil {
		return rows, err
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return rows, fmt.Errorf("flush rows: %w", err)
	}
	return rows, nil
}

func csvRecord(approach *domain.CloseApproach) []string {
	name := ""
	diameter := "nan"
	hazardous := "False"
	if neo := approach.Neo; neo != nil {
		name = neo.Name
		if neo.HasDiameter() {
			diameter = formatFloat(neo.Diameter)
		}
		if neo.Hazardous {
			hazardous = "True"
		}
	}
	return []string{
		approach.TimeString(),
		formatFloat(approach.Distance),
		formatFloat(approach.Velocity),
		approach.Designation,
		name,
		diameter,
		hazardous,
	}
}

// jsonNeo mirrors the nested neo object of the JSON output. An unknown
// diameter is rendered as null.
type jsonNeo struct {
	Designation          string   `json:"designation"`
	Name                 string   `json:"name"`
	DiameterKm           *float64 `json:"diameter_km"`
	PotentiallyHazardous bool     `json:"potentially_hazardous"`
}

type jsonApproach struct {
	DatetimeUTC string  `json:"datetime_utc"`
	DistanceAU  float64 `json:"distance_au"`
	VelocityKmS float64 `json:"velocity_km_s"`
	Neo         jsonNeo `json:"neo"`
}

// WriteJSON writes the stream as a JSON array, one object per approach
// with the NEO nested under "neo". Rows are emitted as they are pulled, so
// the array never materializes in memory.
func WriteJSON(w io.Writer, stream query.Stream) (int, error) {
	buffered := bufio.NewWriter(w)
	if _, err := buffered.WriteString("["); err != nil {
		return 0, err
	}

	rows := 0
	for stream.Next() {
		encoded, err := json.Marshal(jsonRecord(stream.Value()))
		if err != nil {
			return rows, fmt.Errorf("encode row: %w", err)
		}
		if rows > 0 {
			if _, err := buffered.WriteString(","); err != nil {
				return rows, err
			}
		}
		if _, err := buffered.WriteString("\n  "); err != nil {
			return rows, err
		}
		if _, err := buffered.Write(encoded); err != nil {
			return rows, err
		}
		rows++
	}
	if err := stream.Err(); err != nil {
		return rows, err
	}

	if rows > 0 {
		if _, err := buffered.WriteString("\n"); err != nil {
			return rows, err
		}
	}
	if _, err := buffered.WriteString("]\n"); err != nil {
		return rows, err
	}
	return rows, buffered.Flush()
}

func jsonRecord(approach *domain.CloseApproach) jsonApproach {
	record := jsonApproach{
		DatetimeUTC: approach.TimeString(),
		DistanceAU:  approach.Distance,
		VelocityKmS: approach.Velocity,
		Neo: jsonNeo{
			Designation: approach.Designation,
		},
	}
	if neo := approach.Neo; neo != nil {
		record.Neo.Designation = neo.Designation
		record.Neo.Name = neo.Name
		record.Neo.PotentiallyHazardous = neo.Hazardous
		if neo.HasDiameter() {
			diameter := neo.Diameter
			record.Neo.DiameterKm = &diameter
		}
	}
	return record
}

// WriteXLSX writes the stream as a single-sheet workbook with the same
// columns as the CSV output.
func WriteXLSX(w io.Writer, stream query.Stream) (int, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	rows := 0
	for stream.Next() {
		cellRef, err := excelize.CoordinatesToCellName(1, rows+2)
		if err != nil {
			return rows, err
		}
		record := xlsxRecord(stream.Value())
		if err := f.SetSheetRow(sheet, cellRef, &record); err != nil {
			return rows, fmt.Errorf("write row: %w", err)
		}
		rows++
	}
	if err := stream.Err(); err != nil {
		return rows, err
	}

	if err := f.Write(w); err != nil {
		return rows, fmt.Errorf("write workbook: %w", err)
	}
	return rows, nil
}

func xlsxRecord(approach *domain.CloseApproach) []any {
	var name any = ""
	var diameter any = "nan"
	hazardous := false
	if neo := approach.Neo; neo != nil {
		name = neo.Name
		if neo.HasDiameter() {
			diameter = neo.Diameter
		}
		hazardous = neo.Hazardous
	}
	return []any{
		approach.TimeString(),
		approach.Distance,
		approach.Velocity,
		approach.Designation,
		name,
		diameter,
		hazardous,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type countingWriter struct {
	writer io.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)
	return n, err
}
