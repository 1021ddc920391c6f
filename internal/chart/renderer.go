// Package chart renders the intraday candlestick snapshot attached to
// opportunity alerts. Pure image/png, no cgo plotting dependency.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sort"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
	"github.com/yordihernandez1/trading-alert2/internal/indicator"
)

const (
	defaultChartWidth  = 960
	defaultChartHeight = 640
	maxChartCandles    = 100
)

var (
	colBackground = color.RGBA{R: 250, G: 252, B: 255, A: 255}
	colGrid       = color.RGBA{R: 225, G: 232, B: 240, A: 255}
	colBull       = color.RGBA{R: 18, G: 140, B: 126, A: 255}
	colBear       = color.RGBA{R: 210, G: 61, B: 87, A: 255}
	colWick       = color.RGBA{R: 58, G: 64, B: 90, A: 255}
	colEMAFast    = color.RGBA{R: 62, G: 106, B: 214, A: 255}
	colEMASlow    = color.RGBA{R: 255, G: 149, B: 0, A: 255}
	colBand       = color.RGBA{R: 104, G: 122, B: 146, A: 255}
	colLevel      = color.RGBA{R: 62, G: 106, B: 214, A: 255}
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderCandidate draws the trailing intraday candles with EMA9/EMA21
// overlaid, entry/stop/take-profit levels marked, and an RSI pane below.
func (r *Renderer) RenderCandidate(bars []domain.Bar, cand domain.Candidate) (*domain.ChartImage, error) {
	series := normalizeBars(bars)
	if len(series) < 2 {
		return nil, fmt.Errorf("need at least 2 bars to render chart")
	}
	if len(series) > maxChartCandles {
		series = series[len(series)-maxChartCandles:]
	}

	img := image.NewRGBA(image.Rect(0, 0, defaultChartWidth, defaultChartHeight))
	fillRect(img, img.Bounds(), colBackground)

	mainRect := image.Rect(60, 20, defaultChartWidth-20, (defaultChartHeight*72)/100)
	rsiRect := image.Rect(60, mainRect.Max.Y+16, defaultChartWidth-20, defaultChartHeight-30)
	drawGrid(img, mainRect, 8, 6)
	drawGrid(img, rsiRect, 8, 3)

	minPrice, maxPrice := priceBounds(series, cand)
	drawCandles(img, mainRect, series, minPrice, maxPrice)

	closes := indicator.Closes(series)
	drawSeries(img, mainRect, indicator.EMA(closes, 9), minPrice, maxPrice, colEMAFast)
	drawSeries(img, mainRect, indicator.EMA(closes, 21), minPrice, maxPrice, colEMASlow)

	for _, level := range []float64{cand.Entry, cand.StopLoss, cand.TakeProfit} {
		drawHorizontalValueLine(img, mainRect, level, minPrice, maxPrice, colLevel)
	}

	drawHorizontalValueLine(img, rsiRect, 30, 0, 100, colBand)
	drawHorizontalValueLine(img, rsiRect, 70, 0, 100, colBand)
	drawSeries(img, rsiRect, indicator.RSI(closes, indicator.RSIPeriod), 0, 100, colEMAFast)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &domain.ChartImage{
		Bytes:    buf.Bytes(),
		MimeType: "image/png",
		Width:    defaultChartWidth,
		Height:   defaultChartHeight,
	}, nil
}

func normalizeBars(in []domain.Bar) []domain.Bar {
	out := make([]domain.Bar, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func priceBounds(bars []domain.Bar, cand domain.Candidate) (float64, float64) {
	minP, maxP := bars[0].Low, bars[0].High
	for _, b := range bars {
		if b.Low < minP {
			minP = b.Low
		}
		if b.High > maxP {
			maxP = b.High
		}
	}
	// Keep the marked levels inside the pane even when they sit beyond the
	// drawn window's extremes.
	for _, level := range []float64{cand.StopLoss, cand.TakeProfit} {
		if level > 0 && level < minP {
			minP = level
		}
		if level > maxP {
			maxP = level
		}
	}
	if maxP <= minP {
		maxP = minP + 1
	}
	return minP, maxP
}

func drawCandles(img *image.RGBA, rect image.Rectangle, bars []domain.Bar, minPrice, maxPrice float64) {
	candleWidth := maxInt(3, (rect.Dx()-10)/len(bars)-1)
	for i, b := range bars {
		x := mapIndexToX(i, len(bars), rect)
		highY := mapValueToY(b.High, minPrice, maxPrice, rect)
		lowY := mapValueToY(b.Low, minPrice, maxPrice, rect)
		drawLine(img, x, highY, x, lowY, colWick)

		openY := mapValueToY(b.Open, minPrice, maxPrice, rect)
		closeY := mapValueToY(b.Close, minPrice, maxPrice, rect)
		top := minInt(openY, closeY)
		bottom := maxInt(openY, closeY)
		if bottom-top < 2 {
			bottom = top + 2
		}

		bodyRect := image.Rect(x-candleWidth/2, top, x+candleWidth/2+1, bottom+1)
		bodyColor := colBull
		if b.Close < b.Open {
			bodyColor = colBear
		}
		fillRect(img, bodyRect, bodyColor)
	}
}

func drawSeries(img *image.RGBA, rect image.Rectangle, series []float64, minV, maxV float64, col color.RGBA) {
	lastX, lastY := -1, -1
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			lastX, lastY = -1, -1
			continue
		}
		x := mapIndexToX(i, len(series), rect)
		y := mapValueToY(v, minV, maxV, rect)
		if lastX >= 0 {
			drawLine(img, lastX, lastY, x, y, col)
		}
		lastX, lastY = x, y
	}
}

func drawGrid(img *image.RGBA, rect image.Rectangle, verticalLines, horizontalLines int) {
	for i := 0; i <= verticalLines; i++ {
		x := rect.Min.X + (rect.Dx()*i)/maxInt(1, verticalLines)
		drawLine(img, x, rect.Min.Y, x, rect.Max.Y, colGrid)
	}
	for i := 0; i <= horizontalLines; i++ {
		y := rect.Min.Y + (rect.Dy()*i)/maxInt(1, horizontalLines)
		drawLine(img, rect.Min.X, y, rect.Max.X, y, colGrid)
	}
}

func drawHorizontalValueLine(img *image.RGBA, rect image.Rectangle, value, minV, maxV float64, col color.RGBA) {
	y := mapValueToY(value, minV, maxV, rect)
	drawLine(img, rect.Min.X, y, rect.Max.X, y, col)
}

func mapIndexToX(idx, total int, rect image.Rectangle) int {
	if total <= 1 {
		return rect.Min.X
	}
	return rect.Min.X + (idx*(rect.Dx()-1))/(total-1)
}

func mapValueToY(value, minV, maxV float64, rect image.Rectangle) int {
	if maxV <= minV {
		return rect.Max.Y
	}
	ratio := (value - minV) / (maxV - minV)
	ratio = math.Max(0, math.Min(1, ratio))
	return rect.Max.Y - int(ratio*float64(rect.Dy()-1))
}

func fillRect(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	r := rect.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.SetRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
