package dataprocessing

import (
	"encoding/json"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"gemscope/pkg/contracts/domain"
)

// describeRow is the numeric projection of a record loaded into gota.
type describeRow struct {
	Carat float64 `dataframe:"carat"`
	Price float64 `dataframe:"price"`
	X     float64 `dataframe:"x"`
	Y     float64 `dataframe:"y"`
	Z     float64 `dataframe:"z"`
}

// DescribeRow is one statistic across the numeric columns.
type DescribeRow struct {
	Stat   string    `json:"stat"`
	Values []float64 `json:"values"`
}

// MarshalJSON writes undefined statistics, such as the standard deviation
// of a single row, as null.
func (r DescribeRow) MarshalJSON() ([]byte, error) {
	values := make([]*float64, len(r.Values))
	for i, v := range r.Values {
		values[i] = finite(v)
	}
	return json.Marshal(struct {
		Stat   string     `json:"stat"`
		Values []*float64 `json:"values"`
	}{r.Stat, values})
}

// DescribeTable holds descriptive statistics for the numeric columns.
type DescribeTable struct {
	Count   int           `json:"count"`
	Columns []string      `json:"columns"`
	Rows    []DescribeRow `json:"rows"`
}

// Describe computes mean, median, standard deviation, min, quartiles and
// max of the numeric columns.
func Describe(records []domain.Record) (DescribeTable, error) {
	if len(records) == 0 {
		return DescribeTable{}, ErrInsufficientData
	}

	rows := make([]describeRow, len(records))
	for i, r := range records {
		rows[i] = describeRow{Carat: r.Carat, Price: r.Price, X: r.X, Y: r.Y, Z: r.Z}
	}

	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		return DescribeTable{}, fmt.Errorf("load records: %w", df.Err)
	}

	desc := df.Describe()
	if desc.Err != nil {
		return DescribeTable{}, fmt.Errorf("describe: %w", desc.Err)
	}

	table := DescribeTable{Count: len(records), Columns: df.Names()}
	labels := desc.Col(desc.Names()[0]).Records()
	columns := make([][]float64, len(table.Columns))
	for i, name := range table.Columns {
		columns[i] = desc.Col(name).Float()
	}

	for i, label := range labels {
		row := DescribeRow{Stat: label, Values: make([]float64, len(table.Columns))}
		for j := range table.Columns {
			row.Values[j] = columns[j][i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Value returns the statistic for a column, and whether both exist.
func (t DescribeTable) Value(stat, column string) (float64, bool) {
	col := -1
	for i, c := range t.Columns {
		if c == column {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, r := range t.Rows {
		if r.Stat == stat {
			return r.Values[col], true
		}
	}
	return 0, false
}
