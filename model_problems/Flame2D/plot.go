package Flame2D

import (
	"time"

	"github.com/notargets/flamefront/utils"
)

type PlotMeta struct {
	Plot            bool
	Points          int // Samples along the centreline
	FrameTime       time.Duration
	StepsBeforePlot int
}

type lineChart struct {
	chart  *utils.LineChart
	points int
	delay  time.Duration
}

func newLineChart(f *Flame, pm *PlotMeta) (lc *lineChart) {
	if pm.StepsBeforePlot < 1 {
		pm.StepsBeforePlot = 1
	}
	lc = &lineChart{
		chart:  utils.NewLineChart(1920, 1080, f.Mesh.X0, f.Mesh.X1, -0.1, 1.1),
		points: pm.Points,
		delay:  pm.FrameTime,
	}
	if lc.points < 2 {
		lc.points = 2*f.Mesh.Nx + 1
	}
	return
}

// plot draws T in red and C in blue along the channel centreline.
func (lc *lineChart) plot(f *Flame) (err error) {
	x, T, C := f.Centerline(lc.points)
	if err = lc.chart.Plot(0, x, T, -1, "T"); err != nil {
		return
	}
	err = lc.chart.Plot(lc.delay, x, C, 1, "C")
	return
}
