package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/retailreboot/retailreboot/pkg/chart"
	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
	"github.com/retailreboot/retailreboot/pkg/network"
)

// Reserved sheet names in a spreadsheet dataset.
const (
	SheetNodes       = "Nodes"
	SheetConnections = "Connections"
	SheetCards       = "Cards"
)

// LoadXLSX reads a spreadsheet dataset.
//
// Every sheet other than the reserved ones is a chart named after the sheet.
// Its first row is a header; the "label" and "value" columns hold the
// series, and the optional "target", "mode", "title", "page" and "color"
// columns are read from the first data row that fills them. Mode defaults
// to bar.
//
// The "Nodes" sheet has the columns id, name, type, status, x, y and
// metrics (written as "Label=Value; Label=Value"). "Connections" has from,
// to and status. "Cards" has title, value, trend, positive, color and page.
//
// The result is not validated.
func LoadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "open spreadsheet %s", path)
	}
	defer f.Close()

	d := &Dataset{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		tbl := newTable(rows)

		switch {
		case strings.EqualFold(sheet, SheetNodes):
			d.Network.Nodes, err = tbl.nodes()
		case strings.EqualFold(sheet, SheetConnections):
			d.Network.Connections, err = tbl.connections()
		case strings.EqualFold(sheet, SheetCards):
			d.Cards, err = tbl.cards()
		default:
			var c Chart
			c, err = tbl.chart(sheet)
			if err == nil && len(c.Values) > 0 {
				d.Charts = append(d.Charts, c)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return d, nil
}

// table is a sheet with a header row, addressed by lower-cased column name.
type table struct {
	cols map[string]int
	rows [][]string
}

func newTable(rows [][]string) table {
	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[key]; !ok && key != "" {
			cols[key] = i
		}
	}
	return table{cols: cols, rows: rows[1:]}
}

func (t table) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t table) float(row []string, col string, line int) (float64, bool, error) {
	s := t.get(row, col)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false, apperrors.New(apperrors.ErrCodeInvalidInput, "row %d: %s %q is not a number", line, col, s)
	}
	return v, true, nil
}

// bool reads an optional TRUE/FALSE cell; empty means false.
func (t table) bool(row []string, col string, line int) (bool, error) {
	s := t.get(row, col)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return false, apperrors.New(apperrors.ErrCodeInvalidInput, "row %d: %s %q is not true or false", line, col, s)
	}
	return v, nil
}

func (t table) require(cols ...string) error {
	for _, c := range cols {
		if !t.has(c) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "missing %q column", c)
		}
	}
	return nil
}

func (t table) chart(name string) (Chart, error) {
	if err := t.require("label", "value"); err != nil {
		return Chart{}, err
	}
	c := Chart{Name: name, Mode: chart.ModeBar}
	for i, row := range t.rows {
		line := i + 2
		v, ok, err := t.float(row, "value", line)
		if err != nil {
			return Chart{}, err
		}
		if !ok {
			continue
		}
		c.Labels = append(c.Labels, t.get(row, "label"))
		c.Values = append(c.Values, v)

		if c.Target == nil {
			if tv, ok, err := t.float(row, "target", line); err != nil {
				return Chart{}, err
			} else if ok {
				c.Target = &tv
			}
		}
		if m := t.get(row, "mode"); m != "" {
			c.Mode = chart.Mode(strings.ToLower(m))
		}
		if s := t.get(row, "title"); s != "" && c.Title == "" {
			c.Title = s
		}
		if s := t.get(row, "page"); s != "" && c.Page == "" {
			c.Page = s
		}
		if s := t.get(row, "color"); s != "" && c.Color == "" {
			c.Color = s
		}
	}
	return c, nil
}

func (t table) nodes() ([]network.Node, error) {
	if err := t.require("id", "type", "status", "x", "y"); err != nil {
		return nil, err
	}
	var nodes []network.Node
	for i, row := range t.rows {
		line := i + 2
		id := t.get(row, "id")
		if id == "" {
			continue
		}
		x, _, err := t.float(row, "x", line)
		if err != nil {
			return nil, err
		}
		y, _, err := t.float(row, "y", line)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, network.Node{
			ID:       id,
			Name:     t.get(row, "name"),
			Type:     network.NodeType(strings.ToLower(t.get(row, "type"))),
			Status:   network.Status(strings.ToLower(t.get(row, "status"))),
			Position: network.Point{X: x, Y: y},
			Metrics:  parseMetrics(t.get(row, "metrics")),
		})
	}
	return nodes, nil
}

func (t table) connections() ([]network.Connection, error) {
	if err := t.require("from", "to", "status"); err != nil {
		return nil, err
	}
	var conns []network.Connection
	for _, row := range t.rows {
		from, to := t.get(row, "from"), t.get(row, "to")
		if from == "" && to == "" {
			continue
		}
		conns = append(conns, network.Connection{
			From:   from,
			To:     to,
			Status: network.Status(strings.ToLower(t.get(row, "status"))),
		})
	}
	return conns, nil
}

func (t table) cards() ([]Card, error) {
	if err := t.require("title", "value"); err != nil {
		return nil, err
	}
	var cards []Card
	var err error
	for i, row := range t.rows {
		title := t.get(row, "title")
		if title == "" {
			continue
		}
		c := Card{
			Title: title,
			Value: t.get(row, "value"),
			Color: t.get(row, "color"),
			Page:  t.get(row, "page"),
		}
		if v, ok, err := t.float(row, "trend", i+2); err != nil {
			return nil, err
		} else if ok {
			c.Trend = &v
		}
		if c.Positive, err = t.bool(row, "positive", i+2); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// parseMetrics reads "Label=Value; Label=Value".
func parseMetrics(s string) []network.Metric {
	var out []network.Metric
	for _, part := range strings.Split(s, ";") {
		if m, ok := network.ParseMetric(part); ok {
			out = append(out, m)
		}
	}
	return out
}
