package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bpohub/workforce/internal"
)

// Row is one data row keyed by the lower-cased header cell. Missing cells map
// to the empty string.
type Row struct {
	// Line is the 1-based line number in the source file, header included, so
	// upload error reports point at the line the operator sees.
	Line   int
	Fields map[string]string
}

func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// RowError records a single rejected upload row. Collected, never propagated
// as a whole-request failure.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// UploadSummary is the partial-success accounting returned to the caller.
type UploadSummary struct {
	Accepted int        `json:"accepted"`
	Rejected int        `json:"rejected"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Parse reads a CSV or XLSX payload into header-mapped rows. The format is
// picked from the file name extension; anything else is treated as CSV. An
// unreadable file or a missing header is a single validation error covering
// the whole request.
func Parse(filename string, data []byte, requiredColumns []string) ([]Row, *internal.AppError) {
	var (
		rows [][]string
		err  error
	)

	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		rows, err = readXLSX(data)
	} else {
		rows, err = readCSV(data)
	}
	if err != nil {
		return nil, internal.NewValidationError("file could not be read", internal.ErrCodeUnreadableFile).WithCause(err)
	}

	if len(rows) == 0 {
		return nil, internal.NewValidationError("file has no header row", internal.ErrCodeUnreadableFile)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	for _, col := range requiredColumns {
		found := false
		for _, h := range header {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			return nil, internal.NewValidationError("missing required column: "+col, internal.ErrCodeUnreadableFile)
		}
	}

	out := make([]Row, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" {
				continue
			}
			if j < len(cells) {
				fields[h] = cells[j]
			} else {
				fields[h] = ""
			}
		}
		out = append(out, Row{Line: i + 2, Fields: fields})
	}

	return out, nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return f.GetRows(sheets[0])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
