package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/internal/errors"
	"astriql/ports"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV exports of readout tables.
//
// A header NAME holds a scalar column; headers NAME[1] .. NAME[L] hold the
// sub-channels of an array column.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"

	data    *ExcelData
	layouts map[string]columnLayout
	order   []string
}

type columnLayout struct {
	scalar   string
	elements []string
}

var elementHeader = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Open reads the whole file and returns it as a table source
func Open(path string) (*DataReader, error) {
	r := NewDataReader(path)
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	if err := r.index(data); err != nil {
		return nil, err
	}
	return r, nil
}

// OpenSource adapts Open to ports.SourceOpener
func OpenSource(ctx context.Context, path string) (ports.TableSourcePort, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.IOError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.FormatError(fmt.Sprintf("unsupported file type: %s", r.fileType), nil)
	}
}

// readExcelData reads Excel data from Sheet1 into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IOError("failed to open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, errors.FormatError(fmt.Sprintf("failed to read %s", SheetName), err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", SheetName, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, errors.FormatError("Excel file must have at least a header row", nil)
	}
	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IOError("failed to open CSV file", err)
	}
	defer file.Close()

	readStart := time.Now()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.FormatError("failed to read CSV file", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, errors.FormatError("CSV file must have at least a header row", nil)
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{Headers: headers, Rows: dataRows}, nil
}

// index groups headers into scalar and array columns
func (r *DataReader) index(data *ExcelData) error {
	layouts := make(map[string]columnLayout)
	elements := make(map[string]map[int]string)
	var order []string

	for _, h := range data.Headers {
		if h == "" {
			continue
		}
		if m := elementHeader.FindStringSubmatch(h); m != nil {
			k, _ := strconv.Atoi(m[2])
			if elements[m[1]] == nil {
				elements[m[1]] = make(map[int]string)
				order = append(order, m[1])
			}
			elements[m[1]][k] = h
			continue
		}
		layouts[h] = columnLayout{scalar: h}
		order = append(order, h)
	}

	for name, byIndex := range elements {
		if _, clash := layouts[name]; clash {
			return errors.FormatError(fmt.Sprintf("field %s appears both as scalar and array", name), nil)
		}
		keys := make([]int, 0, len(byIndex))
		for k := range byIndex {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		headers := make([]string, len(keys))
		for i, k := range keys {
			if k != i+1 {
				return errors.FormatError(fmt.Sprintf("field %s: sub-channels must run 1..%d without gaps", name, len(keys)), nil)
			}
			headers[i] = byIndex[k]
		}
		layouts[name] = columnLayout{elements: headers}
	}

	r.data = data
	r.layouts = layouts
	r.order = order
	return nil
}

// Fields returns the table fields in header order
func (r *DataReader) Fields() []string {
	return append([]string(nil), r.order...)
}

// Column implements ports.TableSourcePort
func (r *DataReader) Column(ctx context.Context, name string) (readout.Column, error) {
	if err := ctx.Err(); err != nil {
		return readout.Column{}, err
	}
	layout, ok := r.layouts[name]
	if !ok {
		return readout.Column{}, errors.WithCode(errors.CodeNotFound, core.NewFieldNotFoundError(name))
	}

	rows := make([]readout.Row, len(r.data.Rows))
	for i, raw := range r.data.Rows {
		if layout.scalar != "" {
			v, err := parseCell(raw, layout.scalar, i)
			if err != nil {
				return readout.Column{}, err
			}
			rows[i] = readout.Scalar(v)
			continue
		}
		values := make([]float64, len(layout.elements))
		for j, h := range layout.elements {
			v, err := parseCell(raw, h, i)
			if err != nil {
				return readout.Column{}, err
			}
			values[j] = v
		}
		rows[i] = readout.Array(values...)
	}
	return readout.NewColumn(name, rows)
}

func parseCell(raw RawRowData, header string, row int) (float64, error) {
	v, err := strconv.ParseFloat(raw[header], 64)
	if err != nil {
		return 0, errors.FormatError(fmt.Sprintf("cell %s row %d", header, row+1), fmt.Errorf("%w: %q", core.ErrNonNumeric, raw[header]))
	}
	return v, nil
}

// Close implements ports.TableSourcePort; the file is fully read on Open
func (r *DataReader) Close() error {
	return nil
}

var _ ports.TableSourcePort = (*DataReader)(nil)
