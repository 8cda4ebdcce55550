package zcompare

import (
	"fmt"

	"github.com/Arafatk/glot"
)

// QuickLook renders the secure spec-z and phot-z samples through
// gnuplot for interactive inspection and saves the result to path.
// It needs a gnuplot binary on the PATH.
func QuickLook(cat *Catalog, sel *Selection, path string) error {
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

	p, err := glot.NewPlot(2, false, false)
	if err != nil {
		return fmt.Errorf("zcompare: starting gnuplot: %w", err)
	}

	specX, specY := maskedPoints(zSpec, zNIRISS, And(sel.Secure, sel.Spec))
	if err := p.AddPointGroup("z_spec", "points", [][]float64{specX, specY}); err != nil {
		return fmt.Errorf("zcompare: spec points: %w", err)
	}

	photX, photY := maskedPoints(zPhot, zNIRISS, And(sel.Secure, sel.Phot))
	if err := p.AddPointGroup("z_phot", "points", [][]float64{photX, photY}); err != nil {
		return fmt.Errorf("zcompare: phot points: %w", err)
	}

	p.SetTitle("NIRISS redshift comparison")
	p.SetXLabel("prior redshift")
	p.SetYLabel("z_NIRISS")

	if err := p.SavePlot(path); err != nil {
		return fmt.Errorf("zcompare: saving quick look: %w", err)
	}

	return nil
}

func maskedPoints(ref, z []float64, mask []bool) (xs, ys []float64) {
	for i := range mask {
		if mask[i] && isFinite(ref[i]) && isFinite(z[i]) {
			xs = append(xs, ref[i])
			ys = append(ys, z[i])
		}
	}

	return xs, ys
}
