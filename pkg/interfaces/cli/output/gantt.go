package output

import (
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// GanttChart lays out executed steps per resource on a time step axis
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	Horizon      entities.TimeStep
}

// GanttBar represents a single step in the chart
type GanttBar struct {
	Resource string
	Kind     string
	Item     string
	Amount   entities.Quantity
	Start    entities.TimeStep
	End      entities.TimeStep
	X        int
	Width    int
	Color    string
}

// NewGanttChart sizes a chart for the completed steps of an outcome
func NewGanttChart(outcome *dto.Outcome) *GanttChart {
	rows := make(map[string]bool)
	var horizon entities.TimeStep
	for _, s := range outcome.Steps {
		if !s.Completed {
			continue
		}
		rows[s.Resource] = true
		if end := barEnd(s); end > horizon {
			horizon = end
		}
	}
	if horizon < 1 {
		horizon = 1
	}

	rowHeight := 30
	return &GanttChart{
		Width:        1200,
		Height:       len(rows)*rowHeight + 140,
		MarginLeft:   200,
		MarginTop:    60,
		MarginRight:  100,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		Horizon:      horizon,
	}
}

// GenerateSVG creates an SVG representation of the Gantt chart
func (gc *GanttChart) GenerateSVG(outcome *dto.Outcome) string {
	bars := gc.createBars(outcome.Steps)
	if len(bars) == 0 {
		return gc.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.resource-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.step-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Factory Schedule (%s) - income %s</text>`,
		gc.Width/2, html.EscapeString(outcome.Strategy), outcome.Income.StringFixed(2)))

	rows := gc.organizeBars(bars)
	gc.drawTimeAxis(&svg)
	gc.drawResourceRows(&svg, rows)
	gc.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// WriteSVG renders the chart of an outcome into a file
func WriteSVG(outcome *dto.Outcome, filename string) error {
	svg := NewGanttChart(outcome).GenerateSVG(outcome)
	if err := os.WriteFile(filename, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write gantt chart: %w", err)
	}
	return nil
}

func barEnd(s dto.StepSummary) entities.TimeStep {
	if s.CompletedAt > s.ScheduledAt {
		return s.CompletedAt
	}
	return s.ScheduledAt + 1
}

func (gc *GanttChart) xFor(t entities.TimeStep) int {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	return gc.MarginLeft + int(float64(t)/float64(gc.Horizon)*float64(chartWidth))
}

// createBars converts completed steps to bars
func (gc *GanttChart) createBars(steps []dto.StepSummary) []GanttBar {
	var bars []GanttBar
	for _, s := range steps {
		if !s.Completed {
			continue
		}
		end := barEnd(s)
		x := gc.xFor(s.ScheduledAt)
		width := gc.xFor(end) - x
		if width < 2 {
			width = 2
		}
		bars = append(bars, GanttBar{
			Resource: s.Resource,
			Kind:     s.Kind,
			Item:     s.Item,
			Amount:   s.Amount,
			Start:    s.ScheduledAt,
			End:      end,
			X:        x,
			Width:    width,
			Color:    kindColor(s.Kind),
		})
	}
	return bars
}

// organizeBars groups bars by resource, sorted by start
func (gc *GanttChart) organizeBars(bars []GanttBar) map[string][]GanttBar {
	rows := make(map[string][]GanttBar)
	for _, bar := range bars {
		rows[bar.Resource] = append(rows[bar.Resource], bar)
	}
	for resource := range rows {
		sort.SliceStable(rows[resource], func(i, j int) bool {
			return rows[resource][i].Start < rows[resource][j].Start
		})
	}
	return rows
}

func (gc *GanttChart) drawTimeAxis(svg *strings.Builder) {
	interval := entities.TimeStep(1)
	for gc.Horizon/interval > 20 {
		interval *= 5
	}
	axisY := gc.Height - gc.MarginBottom
	for t := entities.TimeStep(0); t <= gc.Horizon; t += interval {
		x := gc.xFor(t)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`, x, gc.MarginTop, x, axisY))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%d</text>`, x, axisY+15, t))
	}
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, axisY, gc.Width-gc.MarginRight, axisY))
}

func (gc *GanttChart) drawResourceRows(svg *strings.Builder, rows map[string][]GanttBar) {
	resources := make([]string, 0, len(rows))
	for resource := range rows {
		resources = append(resources, resource)
	}
	sort.Slice(resources, func(i, j int) bool {
		si, sj := rows[resources[i]][0].Start, rows[resources[j]][0].Start
		if si != sj {
			return si < sj
		}
		return resources[i] < resources[j]
	})

	for i, resource := range resources {
		y := gc.MarginTop + i*gc.RowHeight
		label := resource
		if label == "" {
			label = "(customer)"
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="resource-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-15, y+gc.RowHeight/2+4, html.EscapeString(label)))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+gc.RowHeight, gc.Width-gc.MarginRight, y+gc.RowHeight))
		for _, bar := range rows[resource] {
			gc.drawBar(svg, bar, y)
		}
	}
}

func (gc *GanttChart) drawBar(svg *strings.Builder, bar GanttBar, rowY int) {
	barHeight := gc.RowHeight - 4
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="step-bar">`,
		bar.X, rowY+2, bar.Width, barHeight, bar.Color))
	svg.WriteString(fmt.Sprintf(`<title>%s %dx%s [%d, %d)</title>`,
		bar.Kind, bar.Amount, html.EscapeString(bar.Item), bar.Start, bar.End))
	svg.WriteString(`</rect>`)
}

var legendItems = []struct {
	color string
	label string
}{
	{"#2196F3", "Transport"},
	{"#4CAF50", "Production"},
	{"#FF9800", "Customer"},
}

func (gc *GanttChart) drawLegend(svg *strings.Builder) {
	legendX := gc.Width - gc.MarginRight - 120
	legendY := 40
	for i, item := range legendItems {
		itemY := legendY + i*12
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`, legendX, itemY, item.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label">%s</text>`, legendX+20, itemY+8, item.label))
	}
}

func kindColor(kind string) string {
	switch kind {
	case entities.ConcludeTransportToCustomer.String(), entities.CloseOrder.String():
		return "#FF9800"
	case entities.AcquireFromSupplier.String(), entities.MoveTransporterToWarehouse.String():
		return "#2196F3"
	case entities.MoveToInputBuffer.String(), entities.Produce.String(),
		entities.MoveToOutputBuffer.String(), entities.MoveToWarehouse.String():
		return "#4CAF50"
	default:
		return "#9E9E9E"
	}
}

func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Completed Steps</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}
