package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"company-map/internal/models"
)

const (
	SheetCompanies = "Companies"
	SheetProjects  = "Projects"
)

var companyColumns = []string{"Company Location", "Latitude", "Longitude", "Company Name"}
var projectColumns = []string{"Project Name", "Latitude", "Longitude"}

// ErrMissingColumns marks a required-column validation failure.
var ErrMissingColumns = errors.New("missing required columns")

// Workbook is the parsed content of one uploaded file.
type Workbook struct {
	Companies []models.Company
	Projects  []models.ProjectSite
}

func parseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(val, 64)
}

// headerIndex maps column names to their position in the header row.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func checkColumns(sheet string, idx map[string]int, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: sheet %q must include %s", ErrMissingColumns,
			sheet, strings.Join(required, ", "))
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Load parses a two-sheet workbook from the uploaded file. Both sheets
// are validated before any rows are returned, so a failed load never
// produces a partial result.
func Load(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	companyRows, err := f.GetRows(SheetCompanies)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", SheetCompanies, err)
	}
	projectRows, err := f.GetRows(SheetProjects)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", SheetProjects, err)
	}

	if len(companyRows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrMissingColumns, SheetCompanies)
	}
	if len(projectRows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrMissingColumns, SheetProjects)
	}

	companyIdx := headerIndex(companyRows[0])
	if err := checkColumns(SheetCompanies, companyIdx, companyColumns); err != nil {
		return nil, err
	}
	projectIdx := headerIndex(projectRows[0])
	if err := checkColumns(SheetProjects, projectIdx, projectColumns); err != nil {
		return nil, err
	}

	wb := &Workbook{}

	for i, row := range companyRows[1:] {
		if len(row) == 0 {
			continue
		}
		lat, err := parseCoord(cell(row, companyIdx["Latitude"]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: bad latitude: %w", SheetCompanies, i+2, err)
		}
		lon, err := parseCoord(cell(row, companyIdx["Longitude"]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: bad longitude: %w", SheetCompanies, i+2, err)
		}
		wb.Companies = append(wb.Companies, models.Company{
			Name:     strings.TrimSpace(cell(row, companyIdx["Company Name"])),
			Location: strings.TrimSpace(cell(row, companyIdx["Company Location"])),
			Loc:      models.Coordinate{Lat: lat, Lon: lon},
		})
	}

	for i, row := range projectRows[1:] {
		if len(row) == 0 {
			continue
		}
		lat, err := parseCoord(cell(row, projectIdx["Latitude"]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: bad latitude: %w", SheetProjects, i+2, err)
		}
		lon, err := parseCoord(cell(row, projectIdx["Longitude"]))
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: bad longitude: %w", SheetProjects, i+2, err)
		}
		wb.Projects = append(wb.Projects, models.ProjectSite{
			Name:    strings.TrimSpace(cell(row, projectIdx["Project Name"])),
			Loc:     models.Coordinate{Lat: lat, Lon: lon},
			Visible: true,
		})
	}

	return wb, nil
}
