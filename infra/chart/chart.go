// Package chart renders statistics reports as interactive HTML charts.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/chargelog/core/stats"
)

// Series is one named line of a Line chart.
type Series struct {
	Name   string
	Values []float64
}

// Bar plots a grouped total with its keys in lexical order. Week keys sort
// chronologically.
func Bar(title, subtitle string, totals map[string]float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}))
	keys := stats.SortedKeys(totals)
	data := make([]opts.BarData, len(keys))
	for i, k := range keys {
		data[i] = opts.BarData{Value: totals[k]}
	}
	bar.SetXAxis(keys).AddSeries(title, data)
	return bar
}

// Pie plots the share of every key of a grouped total.
func Pie(title string, totals map[string]float64) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	keys := stats.SortedKeys(totals)
	data := make([]opts.PieData, len(keys))
	for i, k := range keys {
		data[i] = opts.PieData{Name: k, Value: totals[k]}
	}
	pie.AddSeries(title, data)
	return pie
}

// Line plots series against labels, typically a rolling weekly window.
func Line(title string, labels []string, series ...Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	line.SetXAxis(labels)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data)
	}
	return line
}

func counts(m map[string]int) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = float64(v)
	}
	return out
}

// headline summarises mileage and efficiency, which are absent on an empty log.
func headline(r stats.Report) string {
	mileage, eff := "n/a", "n/a"
	if r.CurrentMileage != nil {
		mileage = fmt.Sprintf("%.0f km", *r.CurrentMileage)
	}
	if r.KmPerKWh != nil {
		eff = fmt.Sprintf("%.2f km/kWh", *r.KmPerKWh)
	}
	return fmt.Sprintf("Odometer %s, %s, %d sessions", mileage, eff, r.Sessions)
}

// Dashboard assembles the statistics screen of a vehicle.
func Dashboard(r stats.Report) *components.Page {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s charging statistics", r.VehicleID)
	page.AddCharts(
		Bar("Energy per week (kWh)", headline(r), r.EnergyByWeek),
		Line(fmt.Sprintf("Last %d weeks", r.WindowSize), r.RollingWeeks,
			Series{Name: "Cost", Values: r.RollingCost},
			Series{Name: "Energy (kWh)", Values: r.RollingEnergy},
		),
		Pie("Sessions per location", counts(r.CountByLocation)),
		Pie("Energy per location (kWh)", r.EnergyByLocation),
		Pie("Sessions per site", counts(r.CountBySite)),
	)
	return page
}

// RenderDashboard writes the dashboard of r as a standalone HTML page.
func RenderDashboard(w io.Writer, r stats.Report) error {
	if err := Dashboard(r).Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}
