package app

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const pageTitle = "Lambert W decay of excited erbium ions"

func (p curvePlot) writeHTML(w io.Writer) error {
	line := charts.NewLine()

	yAxis := opts.YAxis{
		Name:  p.YName,
		Type:  "value",
		Show:  opts.Bool(true),
		Scale: opts.Bool(true),
		SplitLine: &opts.SplitLine{
			Show: opts.Bool(true),
		},
	}
	if p.logScale() {
		yAxis.Type = "log"
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			BackgroundColor: "#ffffff",
			Width:           "100%",
			Height:          "600px",
			PageTitle:       pageTitle,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: p.Title,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "slider",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithLegendOpts(opts.Legend{
			Orient:       "horizontal",
			Show:         opts.Bool(true),
			SelectedMode: "multiple",
			Type:         "scroll",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "cross",
				Snap: opts.Bool(true),
			},
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Top:  "0%",
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  opts.Bool(true),
					Type:  "png",
					Name:  "chart",
					Title: "Save as image",
				},
				DataView: &opts.ToolBoxFeatureDataView{
					Show:  opts.Bool(true),
					Title: "Data view",
					Lang:  []string{"data view", "turn off", "refresh"},
				},
				Restore: &opts.ToolBoxFeatureRestore{
					Show:  opts.Bool(true),
					Title: "refresh",
				},
			},
		}),
		// AXIS
		charts.WithXAxisOpts(opts.XAxis{
			Name: p.XName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(yAxis),
	)

	if len(p.Curves) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	x := make([]string, len(p.Curves[0].X()))
	for i, v := range p.Curves[0].X() {
		x[i] = strconv.FormatFloat(v, 'g', 4, 64)
	}
	line.SetXAxis(x)

	for i, c := range p.Curves {
		var series []charts.SeriesOpts
		series = append(series, charts.WithLineChartOpts(opts.LineChart{
			ShowSymbol: opts.Bool(false),
		}))
		if i == 0 && p.ShowGuide {
			series = append(series,
				charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
					Name:  "guide",
					YAxis: p.Guide,
				}),
				charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Type:  "dashed",
						Color: "#000000",
					},
				}),
			)
		}
		line.AddSeries(c.Name(), c.Data(), series...)
	}
	return line.Render(w)
}

func (m contourMap) writeHTML(w io.Writer) error {
	lo, hi, ok := m.bounds()
	if !ok {
		return fmt.Errorf("sweep produced no finite values")
	}
	g := m.Grid

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			BackgroundColor: "#ffffff",
			Width:           "100%",
			Height:          "700px",
			PageTitle:       pageTitle,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    m.Title,
			Subtitle: fmt.Sprintf("%s vs %s", g.YAxis.Label(), g.XAxis.Label()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      g.XAxis.Label(),
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      g.YAxis.Label(),
			Type:      "category",
			Data:      axisLabels(g.Y, g.YAxis.Scale),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Text:       []string{m.Label},
			InRange: &opts.VisualMapInRange{
				Color: []string{"#000004", "#57106e", "#bc3754", "#f98e09", "#fcffa4"},
			},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(g.X)*len(g.Y))
	for i, row := range m.Z {
		for j, v := range row {
			value := [3]interface{}{j, i, v}
			if math.IsNaN(v) {
				value[2] = "-"
			}
			data = append(data, opts.HeatMapData{Value: value})
		}
	}
	hm.SetXAxis(axisLabels(g.X, g.XAxis.Scale)).AddSeries(m.Label, data)
	return hm.Render(w)
}

func axisLabels(values []float64, scale func(float64) float64) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = strconv.FormatFloat(scale(v), 'g', 3, 64)
	}
	return labels
}
