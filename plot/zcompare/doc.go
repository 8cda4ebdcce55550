// Package zcompare renders comparisons between grism redshifts and
// prior spectroscopic or photometric redshift estimates.
//
// The input is a CSV catalog with named numeric columns. Selection
// masks split the sample by measurement quality and by which prior
// redshift is available, and the figure shows the grism redshift
// against each prior estimate with a per-panel scatter annotation.
//
//	cat, err := zcompare.LoadCatalog("catalog.csv")
//	if err != nil { ... }
//	sel, err := zcompare.Select(cat, zcompare.DefaultFlags())
//	if err != nil { ... }
//	err = zcompare.RenderComparison(cat, sel, "z_comparison.png")
package zcompare
