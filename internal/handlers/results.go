package handlers

import (
	"net/http"

	"digit-recall/internal/game"
	"digit-recall/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type ResultsHandler struct {
	log      *zap.Logger
	registry *game.Registry
}

func NewResultsHandler(log *zap.Logger, registry *game.Registry) *ResultsHandler {
	return &ResultsHandler{log: log, registry: registry}
}

// Chart returns ECharts line-chart options for the signed-in player's
// history: GET /results/chart?metric=score|accuracy. The front end feeds
// the options straight into echarts.setOption.
func (h *ResultsHandler) Chart(c *gin.Context) {
	sess, ok := attachSession(c, h.log, h.registry)
	if !ok {
		return
	}

	metric := c.DefaultQuery("metric", "score")
	var (
		data  []repository.TimelineDataPoint
		label string
		err   error
	)
	switch metric {
	case "accuracy":
		label = "Accuracy (%)"
		data, err = repository.AccuracyTimeline(c.Request.Context(), sess.StatsRecordID())
	case "score":
		label = "Round Score"
		data, err = repository.ScoreTimeline(c.Request.Context(), sess.StatsRecordID())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown metric"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load timeline data", zap.Error(err), zap.String("metric", metric))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chart data"})
		return
	}

	c.JSON(http.StatusOK, timelineChart(data, label).JSON())
}

// timelineChart builds the line chart for a per-round metric over time.
func timelineChart(data []repository.TimelineDataPoint, metricLabel string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Metric Over Time",
			Subtitle: metricLabel,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries(metricLabel, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
