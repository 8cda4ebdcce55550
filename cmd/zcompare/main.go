// Command zcompare renders the grism-vs-prior redshift comparison
// figure from a CSV catalog.
//
// Usage:
//
//	zcompare [flags] catalog.csv
//
// Examples:
//
//	zcompare catalog.csv
//	zcompare --out figure.png --outlier-threshold 0.3 catalog.csv
//	zcompare --quicklook quick.png catalog.csv
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-astro/plot/zcompare"
)

func main() {
	out := pflag.StringP("out", "o", "z_comparison.png", "output figure path (PNG)")
	threshold := pflag.Float64("outlier-threshold", 0.25, "|dz| above which a source is listed as an outlier")
	quick := pflag.String("quicklook", "", "also render an interactive gnuplot quick look to this path")
	secureMin := pflag.Float64("secure-flag", 4, "minimum Z_FLAG for a secure redshift")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zcompare [flags] catalog.csv\n\n")
		fmt.Fprintf(os.Stderr, "Renders NIRISS grism redshifts against prior spectroscopic and\n")
		fmt.Fprintf(os.Stderr, "photometric redshifts, and lists catastrophic outliers.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(pflag.Arg(0), *out, *quick, *threshold, *secureMin); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogPath, out, quick string, threshold, secureMin float64) error {
	cat, err := zcompare.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	flags := zcompare.DefaultFlags()
	flags.SecureMin = secureMin

	sel, err := zcompare.Select(cat, flags)
	if err != nil {
		return err
	}

	printCounts(sel)

	for _, ref := range []struct {
		label  string
		column string
		mask   []bool
	}{
		{"z_spec", zcompare.ColZSpec, sel.Spec},
		{"z_phot", zcompare.ColZPhot, sel.Phot},
	} {
		mask := zcompare.And(sel.Secure, ref.mask)

		outliers, err := zcompare.Outliers(cat, ref.column, mask, threshold)
		if err != nil {
			return err
		}

		for _, o := range outliers {
			fmt.Printf("outlier vs %s: NUMBER=%.0f Z_NIRISS=%.3f %s=%.3f\n",
				ref.label, o.Number, o.ZNIRISS, ref.label, o.ZRef)
		}
	}

	if err := zcompare.RenderComparison(cat, sel, out); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)

	if quick != "" {
		if err := zcompare.QuickLook(cat, sel, quick); err != nil {
			return err
		}

		fmt.Printf("wrote %s\n", quick)
	}

	return nil
}

func printCounts(sel *zcompare.Selection) {
	fmt.Printf("spec=%d phot=%d no-z=%d\n",
		zcompare.Count(sel.Spec), zcompare.Count(sel.Phot), zcompare.Count(sel.NoZ))
	fmt.Printf("secure: total=%d spec=%d phot=%d no-z=%d\n",
		zcompare.Count(sel.Secure),
		zcompare.Count(zcompare.And(sel.Secure, sel.Spec)),
		zcompare.Count(zcompare.And(sel.Secure, sel.Phot)),
		zcompare.Count(zcompare.And(sel.Secure, sel.NoZ)))
	fmt.Printf("tentative: total=%d spec=%d phot=%d no-z=%d\n",
		zcompare.Count(sel.Tentative),
		zcompare.Count(zcompare.And(sel.Tentative, sel.Spec)),
		zcompare.Count(zcompare.And(sel.Tentative, sel.Phot)),
		zcompare.Count(zcompare.And(sel.Tentative, sel.NoZ)))
}
