package server

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"net/http"

	"stock_go/internal/domain"

	"github.com/disintegration/imaging"
)

// Chart geometry. Rendered at 2x and downsampled for smooth edges.
const (
	chartWidth   = 280
	chartHeight  = 160
	chartPadding = 8
	barGap       = 6
)

var (
	chartBackground = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	chartBarColor   = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	chartBaseline   = color.NRGBA{R: 0x45, G: 0x47, B: 0x5a, A: 0xff}
)

// handleChart renders the weekly activity record of one stock as a PNG
// bar chart, Sunday through Saturday.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRequest()

	name := r.PathValue("name")
	stock, ok := s.store.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("Unknown stock"))
		return
	}

	img := renderWeeklyChart(stock.Record)

	w.Header().Set("Content-Type", "image/png")
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		slog.Error("Chart encoding failed", slog.String("stock", name), slog.Any("error", err))
	}
}

// renderWeeklyChart composes one bar per weekday, scaled against the
// week's maximum. An all-zero week renders the baseline only.
func renderWeeklyChart(record domain.Record) image.Image {
	const scale = 2
	width, height := chartWidth*scale, chartHeight*scale
	canvas := imaging.New(width, height, chartBackground)

	maxVal := 0.0
	for _, day := range domain.Weekdays {
		if v, _ := record[day].Float64(); v > maxVal {
			maxVal = v
		}
	}

	pad := chartPadding * scale
	gap := barGap * scale
	plotHeight := height - 2*pad
	barWidth := (width - 2*pad - gap*(len(domain.Weekdays)-1)) / len(domain.Weekdays)

	baseline := imaging.New(width-2*pad, scale, chartBaseline)
	canvas = imaging.Paste(canvas, baseline, image.Pt(pad, height-pad))

	for i, day := range domain.Weekdays {
		v, _ := record[day].Float64()
		if maxVal <= 0 || v <= 0 {
			continue
		}
		barHeight := int(float64(plotHeight) * v / maxVal)
		if barHeight < scale {
			barHeight = scale
		}
		bar := imaging.New(barWidth, barHeight, chartBarColor)
		x := pad + i*(barWidth+gap)
		y := height - pad - barHeight
		canvas = imaging.Paste(canvas, bar, image.Pt(x, y))
	}

	return imaging.Resize(canvas, chartWidth, chartHeight, imaging.Lanczos)
}
