// Package report renders a session's timing profile as a standalone
// HTML page with embedded charts.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/SeamusWaldron/cubeviz/internal/stats"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

// Data bundles everything one report needs.
type Data struct {
	Session *storage.Session
	Records []storage.MoveRecord
	Summary stats.Summary
}

var faceOrder = []string{"U", "D", "F", "B", "R", "L"}

// Render writes the report page for a session.
func Render(w io.Writer, data Data) error {
	page := components.NewPage()
	page.PageTitle = "cubeviz session report"
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(
		gapChart(data),
		faceChart(data),
		timelineChart(data),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// WriteFile renders the report to a file.
func WriteFile(path string, data Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	return Render(f, data)
}

func subtitle(data Data) string {
	if data.Session == nil {
		return fmt.Sprintf("%d moves", len(data.Records))
	}
	return fmt.Sprintf("session %s, %d moves, %.1f moves/s",
		data.Session.SessionID, data.Summary.Moves, data.Summary.MovesPerSecond)
}

// gapChart plots the inter-move gap over the move index.
func gapChart(data Data) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Inter-move gap", Subtitle: subtitle(data)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "move"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "gap (ms)"}),
	)

	gaps := stats.Gaps(data.Records)
	xs := make([]int, len(gaps))
	ys := make([]opts.LineData, len(gaps))
	for i, g := range gaps {
		xs[i] = i + 1
		ys[i] = opts.LineData{Value: g}
	}

	line.SetXAxis(xs).AddSeries("gap", ys,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}

// faceChart plots how many times each face was turned.
func faceChart(data Data) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Moves per face"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	ys := make([]opts.BarData, len(faceOrder))
	for i, face := range faceOrder {
		ys[i] = opts.BarData{Value: data.Summary.FaceCounts[face]}
	}

	bar.SetXAxis(faceOrder).AddSeries("moves", ys)

	return bar
}

// timelineChart scatters every move by time and face.
func timelineChart(data Data) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Move timeline"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "face", Min: -1, Max: len(faceOrder)}),
	)

	faceRow := make(map[string]int, len(faceOrder))
	for i, face := range faceOrder {
		faceRow[face] = i
	}

	points := make([]opts.ScatterData, 0, len(data.Records))
	for _, r := range data.Records {
		points = append(points, opts.ScatterData{
			Value: []interface{}{float64(r.OffsetMs) / 1000.0, faceRow[r.Face]},
		})
	}

	scatter.AddSeries("moves", points,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	return scatter
}
