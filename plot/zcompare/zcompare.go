package zcompare

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// FigureOptions control the rendered comparison figure.
type FigureOptions struct {
	Width  vg.Length // total canvas width; default 9 inches
	Height vg.Length // canvas height; default 4.5 inches

	LinearMax float64 // identity-line extent of the linear panel; default 8.5
	LogMin    float64 // axis limits of the log panel; defaults 0.08
	LogMax    float64 // and 10
}

func (o *FigureOptions) normalize() {
	if o.Width <= 0 {
		o.Width = 9 * vg.Inch
	}

	if o.Height <= 0 {
		o.Height = 4.5 * vg.Inch
	}

	if o.LinearMax <= 0 {
		o.LinearMax = 8.5
	}

	if o.LogMin <= 0 {
		o.LogMin = 0.08
	}

	if o.LogMax <= o.LogMin {
		o.LogMax = 10
	}
}

// RenderComparison draws the two-panel redshift comparison with
// default options and writes a PNG to path.
func RenderComparison(cat *Catalog, sel *Selection, path string) error {
	return RenderComparisonOptions(cat, sel, path, FigureOptions{})
}

// RenderComparisonOptions draws the comparison figure: grism redshift
// against the prior spectroscopic redshift on a linear panel and
// against the prior photometric redshift on a log-log panel, each with
// an identity line and a scatter annotation over the secure sample.
func RenderComparisonOptions(cat *Catalog, sel *Selection, path string, opts FigureOptions) error {
	opts.normalize()

	zNIRISS, err := cat.Column(ColZNIRISS)
	if err != nil {
		return err
	}

	zSpec, err := cat.Column(ColZSpec)
	if err != nil {
		return err
	}

	zPhot, err := cat.Column(ColZPhot)
	if err != nil {
		return err
	}

	left, err := linearPanel(zSpec, zNIRISS, And(sel.Secure, sel.Spec), opts)
	if err != nil {
		return err
	}

	right, err := logPanel(zPhot, zNIRISS, And(sel.Secure, sel.Phot), opts)
	if err != nil {
		return err
	}

	img := vgimg.New(opts.Width, opts.Height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Points(8),
	}

	canvases := plot.Align([][]*plot.Plot{{left, right}}, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("zcompare: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("zcompare: writing figure: %w", err)
	}

	return nil
}

func linearPanel(ref, z []float64, mask []bool, opts FigureOptions) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "z_spec"
	p.Y.Label.Text = "z_NIRISS"
	p.X.Min, p.X.Max = 0, opts.LinearMax
	p.Y.Min, p.Y.Max = 0, opts.LinearMax

	if err := addIdentity(p, 0, opts.LinearMax); err != nil {
		return nil, err
	}

	if err := addSample(p, ref, z, mask, false); err != nil {
		return nil, err
	}

	if err := addSigmaLabel(p, z, ref, mask, 0.1*opts.LinearMax, 0.9*opts.LinearMax); err != nil {
		return nil, err
	}

	return p, nil
}

func logPanel(ref, z []float64, mask []bool, opts FigureOptions) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "z_phot"
	p.Y.Label.Text = "z_NIRISS"

	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Min, p.X.Max = opts.LogMin, opts.LogMax
	p.Y.Min, p.Y.Max = opts.LogMin, opts.LogMax

	ticks := plot.ConstantTicks(logTicks())
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks

	if err := addIdentity(p, opts.LogMin, opts.LogMax); err != nil {
		return nil, err
	}

	if err := addSample(p, ref, z, mask, true); err != nil {
		return nil, err
	}

	if err := addSigmaLabel(p, z, ref, mask, 0.12, 7); err != nil {
		return nil, err
	}

	return p, nil
}

// logTicks labels the decades and a few intermediate values; the rest
// are unlabeled minor ticks.
func logTicks() []plot.Tick {
	labeled := map[float64]string{
		0.1: "0.1", 0.2: "0.2", 0.5: "0.5",
		1: "1.0", 2: "2.0", 5: "5.0",
	}

	var ticks []plot.Tick

	for _, decade := range []float64{0.1, 1} {
		for m := 1; m < 10; m++ {
			v := decade * float64(m)
			ticks = append(ticks, plot.Tick{Value: v, Label: labeled[v]})
		}
	}

	ticks = append(ticks, plot.Tick{Value: 10, Label: ""})

	return ticks
}

func addIdentity(p *plot.Plot, min, max float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: min, Y: min}, {X: max, Y: max}})
	if err != nil {
		return fmt.Errorf("zcompare: identity line: %w", err)
	}

	line.LineStyle.Color = color.Black
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}

	p.Add(line)

	return nil
}

func addSample(p *plot.Plot, ref, z []float64, mask []bool, logAxes bool) error {
	var pts plotter.XYs

	for i := range mask {
		if !mask[i] || !isFinite(ref[i]) || !isFinite(z[i]) {
			continue
		}

		if logAxes && (ref[i] <= 0 || z[i] <= 0) {
			continue
		}

		pts = append(pts, plotter.XY{X: ref[i], Y: z[i]})
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("zcompare: scatter: %w", err)
	}

	scatter.GlyphStyle.Color = color.NRGBA{R: 128, G: 0, B: 128, A: 178}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(scatter)

	return nil
}

func addSigmaLabel(p *plot.Plot, z, ref []float64, mask []bool, x, y float64) error {
	sigma := SigmaZ(z, ref, mask)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{fmt.Sprintf("sigma_z = %.2f", sigma)},
	})
	if err != nil {
		return fmt.Errorf("zcompare: annotation: %w", err)
	}

	p.Add(labels)

	return nil
}
