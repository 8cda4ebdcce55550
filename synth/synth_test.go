package synth

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cwbudde/algo-astro/spec/core"
	"github.com/cwbudde/algo-astro/spec/dust"
	"github.com/cwbudde/algo-astro/spec/filters"
	"github.com/cwbudde/algo-astro/spec/igm"
	"github.com/cwbudde/algo-astro/spec/nebular"
)

type fakeHistory struct {
	unphysical bool
	grid       [][]float64
	updates    int
	last       Components
}

func (h *fakeHistory) Update(c Components) error {
	h.updates++
	h.last = c
	return nil
}

func (h *fakeHistory) Unphysical() bool  { return h.unphysical }
func (h *fakeHistory) Grid() [][]float64 { return h.grid }

type fakeStellar struct {
	bc      []float64
	diffuse []float64
}

func (s *fakeStellar) Spectrum([][]float64, float64) ([]float64, []float64) {
	return append([]float64(nil), s.bc...), append([]float64(nil), s.diffuse...)
}

type fakeNebular struct {
	lines     []float64
	continuum []float64
}

func (n *fakeNebular) LineFluxes([][]float64, float64, float64) []float64 {
	return append([]float64(nil), n.lines...)
}

func (n *fakeNebular) Spectrum([][]float64, float64, float64) []float64 {
	return append([]float64(nil), n.continuum...)
}

type fakeAGN struct {
	spec []float64
}

func (a *fakeAGN) Update(map[string]float64) {}
func (a *fakeAGN) Spectrum() []float64       { return a.spec }

func linearGrid(lo, step float64, n int) []float64 {
	wavs := make([]float64, n)
	for i := range wavs {
		wavs[i] = lo + step*float64(i)
	}

	return wavs
}

func logGrid(lo, hi float64, n int) []float64 {
	wavs := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range wavs {
		wavs[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}

	return wavs
}

func constSlice(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func sfhOnly() Components {
	return Components{
		SFH: map[string]map[string]float64{
			"burst": {"age": 0.5, "massformed": 9, "metallicity": 0.02},
		},
	}
}

func TestNewSynthesizerValidation(t *testing.T) {
	wavs := linearGrid(4000, 10, 100)
	hist := &fakeHistory{grid: [][]float64{{1}}}
	stellar := &fakeStellar{bc: constSlice(100, 1), diffuse: constSlice(100, 1)}

	if _, err := NewSynthesizer(Config{History: hist, Stellar: stellar}); err != ErrNoWavelengths {
		t.Fatalf("missing grid: got %v", err)
	}

	if _, err := NewSynthesizer(Config{Wavelengths: wavs, Stellar: stellar}); err != ErrNoHistory {
		t.Fatalf("missing history: got %v", err)
	}

	if _, err := NewSynthesizer(Config{Wavelengths: wavs, History: hist}); err != ErrNoStellar {
		t.Fatalf("missing stellar: got %v", err)
	}

	badCurve := &dust.Curve{ACont: []float64{1, 2}}
	if _, err := NewSynthesizer(Config{
		Wavelengths: wavs, History: hist, Stellar: stellar, Dust: badCurve,
	}); err == nil {
		t.Fatal("mismatched dust curve should fail")
	}
}

func TestUpdateComponentPreconditions(t *testing.T) {
	wavs := linearGrid(4000, 10, 100)
	hist := &fakeHistory{grid: [][]float64{{1}}}
	stellar := &fakeStellar{bc: constSlice(100, 1), diffuse: constSlice(100, 1)}

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     hist,
		Stellar:     stellar,
		Dust:        dust.PowerLaw(wavs, nebular.DefaultCatalog().Wavelengths(), 0.7),
		IGM:         igm.NewUnity(len(wavs)),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := syn.Update(Components{Redshift: -1, SFH: sfhOnly().SFH}, UpdateOptions{}); err != ErrNegRedshift {
		t.Fatalf("negative redshift: got %v", err)
	}

	if _, err := syn.Update(Components{}, UpdateOptions{}); err != ErrMissingSFH {
		t.Fatalf("missing SFH: got %v", err)
	}

	if _, err := syn.Update(sfhOnly(), UpdateOptions{}); err != ErrMissingDust {
		t.Fatalf("missing dust params: got %v", err)
	}
}

func TestZeroRedshiftLuminosityUnits(t *testing.T) {
	n := 100
	wavs := linearGrid(4000, 10, n)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 0.5), diffuse: constSlice(n, 1.5)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := syn.Update(sfhOnly(), UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := 2.0 * core.LSun
	for i, v := range res.Full {
		if math.Abs(v-want)/want > 1e-12 {
			t.Fatalf("z=0 flux[%d] got %v want %v", i, v, want)
		}
	}
}

func TestRedshiftScalingLaw(t *testing.T) {
	n := 100
	wavs := linearGrid(4000, 10, n)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()

	comp.Redshift = 0.5
	res1, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update z1: %v", err)
	}

	comp.Redshift = 1.0
	res2, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update z2: %v", err)
	}

	tab := syn.cfg.Distances
	d1 := tab.LuminosityDistanceCM(0.5)
	d2 := tab.LuminosityDistanceCM(1.0)

	wantRatio := d2 * d2 * 2.0 / (d1 * d1 * 1.5)

	for i := range res1.Full {
		ratio := res1.Full[i] / res2.Full[i]
		if math.Abs(ratio-wantRatio)/wantRatio > 1e-9 {
			t.Fatalf("scaling at %d: got %v want %v", i, ratio, wantRatio)
		}
	}
}

func TestLymanLimitReprocessing(t *testing.T) {
	n := 200
	wavs := linearGrid(500, 10, n) // 500 to 2490 A

	catalog := nebular.DefaultCatalog()

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 3), diffuse: constSlice(n, 0)},
		Nebular:     &fakeNebular{lines: constSlice(catalog.Len(), 0), continuum: constSlice(n, 0)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Nebular = &NebularParams{LogU: -3}

	res, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	for i, w := range wavs {
		if w < core.LymanLimit && res.Full[i] != 0 {
			t.Fatalf("flux below Lyman limit at %v A: got %v want 0", w, res.Full[i])
		}

		if w > core.LymanLimit && res.Full[i] == 0 {
			t.Fatalf("flux above Lyman limit at %v A should survive", w)
		}
	}

	// continuum_only must skip the zeroing entirely.
	resCont, err := syn.Update(comp, UpdateOptions{ContinuumOnly: true})
	if err != nil {
		t.Fatalf("update continuum: %v", err)
	}

	if resCont.Full[0] == 0 {
		t.Fatal("continuum-only run should keep flux below the Lyman limit")
	}
}

func TestLineRemovalBinWidthCorrection(t *testing.T) {
	n := 500
	wavs := linearGrid(4000, 10, n)

	catalog := nebular.DefaultCatalog()
	haIdx, ok := catalog.Index("H  1  6562.81A")
	if !ok {
		t.Fatal("catalog misses H-alpha")
	}

	lines := constSlice(catalog.Len(), 0)
	lines[haIdx] = 100

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		Nebular:     &fakeNebular{lines: lines, continuum: constSlice(n, 2)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Nebular = &NebularParams{LogU: -3}

	plain, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	removed, err := syn.Update(comp, UpdateOptions{RemoveLines: []string{"H  1  6562.81A"}})
	if err != nil {
		t.Fatalf("update removal: %v", err)
	}

	ind := core.NearestIndex(wavs, 6562.81)
	width := (wavs[ind+1] - wavs[ind-1]) / 2
	wantDrop := 100 / width * core.LSun

	drop := plain.Full[ind] - removed.Full[ind]
	if math.Abs(drop-wantDrop)/wantDrop > 1e-12 {
		t.Fatalf("removal drop got %v want %v", drop, wantDrop)
	}

	for i := range plain.Full {
		if i == ind {
			continue
		}

		if plain.Full[i] != removed.Full[i] {
			t.Fatalf("removal touched index %d", i)
		}
	}

	// Velocity shift moves the affected grid index.
	comp.Nebular.VelShift = 3000 // km/s -> ~66 A at H-alpha
	shifted, err := syn.Update(comp, UpdateOptions{RemoveLines: []string{"H  1  6562.81A"}})
	if err != nil {
		t.Fatalf("update shifted: %v", err)
	}

	shiftedWav := nebular.ShiftedWavelength(6562.81, 3000)
	shiftedInd := core.NearestIndex(wavs, shiftedWav)

	if shiftedInd == ind {
		t.Fatal("test setup: shift too small to move the index")
	}

	comp.Nebular.VelShift = 0
	if shifted.Full[ind] != plain.Full[ind] {
		t.Fatal("shifted removal should leave the rest wavelength index alone")
	}
}

func TestLineRemovalAtGridEdgeIsNoOp(t *testing.T) {
	n := 100
	// Grid starting right at Ly-alpha so the line lands on index 0.
	wavs := linearGrid(1215.67, 10, n)

	catalog := nebular.DefaultCatalog()
	lyaIdx, _ := catalog.Index("H  1  1215.67A")

	lines := constSlice(catalog.Len(), 0)
	lines[lyaIdx] = 50

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		Nebular:     &fakeNebular{lines: lines, continuum: constSlice(n, 2)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Nebular = &NebularParams{LogU: -3}

	plain, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	removed, err := syn.Update(comp, UpdateOptions{RemoveLines: []string{"H  1  1215.67A"}})
	if err != nil {
		t.Fatalf("update removal: %v", err)
	}

	for i := range plain.Full {
		if plain.Full[i] != removed.Full[i] {
			t.Fatalf("edge removal modified index %d", i)
		}
	}
}

func TestLineRemovalUnknownName(t *testing.T) {
	n := 100
	wavs := linearGrid(4000, 10, n)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		Nebular:     &fakeNebular{lines: constSlice(nebular.DefaultCatalog().Len(), 0), continuum: constSlice(n, 0)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Nebular = &NebularParams{LogU: -3}

	if _, err := syn.Update(comp, UpdateOptions{RemoveLines: []string{"bogus"}}); err == nil {
		t.Fatal("unknown line name should error")
	}
}

func TestEnergyBalance(t *testing.T) {
	n := 400
	wavs := logGrid(100, 1e6, n)

	bc := make([]float64, n)
	diffuse := make([]float64, n)
	for i, w := range wavs {
		// Stellar-like light concentrated in the UV/optical.
		x := (w - 3000) / 2000
		bc[i] = 2 * math.Exp(-0.5*x*x)
		diffuse[i] = 3 * math.Exp(-0.5*(w-5000)*(w-5000)/9e6)
	}

	catalog := nebular.DefaultCatalog()

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: bc, diffuse: diffuse},
		Dust:        dust.PowerLaw(wavs, catalog.Wavelengths(), 0.7),
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Dust = &DustParams{Av: 0.5, Eta: 2}

	res, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	gotTotal := core.Trapz(res.Full, wavs) / core.LSun

	wantTotal := core.Trapz(bc, wavs) + core.Trapz(diffuse, wavs)

	if math.Abs(gotTotal-wantTotal)/wantTotal > 1e-9 {
		t.Fatalf("energy balance: got %v want %v", gotTotal, wantTotal)
	}

	if res.BirthCloud == nil {
		t.Fatal("dust runs should expose the birth-cloud spectrum")
	}
}

func TestUnphysicalHistory(t *testing.T) {
	n := 100
	wavs := linearGrid(4000, 10, n)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}, unphysical: true},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		IGM:         igm.NewUnity(n),
		Filters:     []filters.Filter{filters.TopHat("band", 4200, 4400)},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := syn.Update(sfhOnly(), UpdateOptions{})
	if err != nil {
		t.Fatalf("unphysical history must not error: %v", err)
	}

	if !res.Unphysical {
		t.Fatal("Unphysical flag not set")
	}

	for i, v := range res.Full {
		if v != 0 {
			t.Fatalf("unphysical spectrum nonzero at %d: %v", i, v)
		}
	}

	if res.UVJ != [3]float64{} {
		t.Fatalf("unphysical UVJ got %v want zeros", res.UVJ)
	}

	// Photometry is still evaluated, against the zero spectrum.
	if len(res.Photometry) != 1 || res.Photometry[0] != 0 {
		t.Fatalf("photometry on zero spectrum got %v", res.Photometry)
	}
}

func TestDLAZeroColumnDensityIsTransparent(t *testing.T) {
	n := 100
	wavs := linearGrid(3000, 10, n)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Redshift = 1.0

	plain, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	comp.DLA = &DLAParams{ColumnDensity: 0, Redshift: 2.5}
	withDLA, err := syn.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update DLA: %v", err)
	}

	for i := range plain.Full {
		if plain.Full[i] != withDLA.Full[i] {
			t.Fatalf("zero column density changed flux at %d", i)
		}
	}
}

func TestAGNContribution(t *testing.T) {
	n := 100
	wavs := linearGrid(3000, 10, n)

	comp := sfhOnly()
	comp.Redshift = 1.0
	comp.AGN = map[string]float64{"slope": -1.5}

	base := Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		IGM:         igm.NewUnity(n),
	}

	synPlain, err := NewSynthesizer(base)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	plain, err := synPlain.Update(Components{Redshift: 1.0, SFH: comp.SFH}, UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	base.AGN = &fakeAGN{spec: constSlice(n, 10)}
	synAGN, err := NewSynthesizer(base)
	if err != nil {
		t.Fatalf("new AGN: %v", err)
	}

	withAGN, err := synAGN.Update(comp, UpdateOptions{})
	if err != nil {
		t.Fatalf("update AGN: %v", err)
	}

	want := 10.0 / 2.0 // AGN flux divided by (1+z)
	for i := range plain.Full {
		diff := withAGN.Full[i] - plain.Full[i]
		if math.Abs(diff-want) > 1e-9 {
			t.Fatalf("AGN contribution at %d: got %v want %v", i, diff, want)
		}
	}
}

func TestResampledOutputGrid(t *testing.T) {
	n := 200
	wavs := linearGrid(3000, 10, n)
	outWavs := linearGrid(3500, 25, 40)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		OutputWavs:  outWavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 0.25), diffuse: constSlice(n, 0.75)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := syn.Update(sfhOnly(), UpdateOptions{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(res.Resampled) != len(outWavs) {
		t.Fatalf("resampled length got %d want %d", len(res.Resampled), len(outWavs))
	}

	want := core.LSun
	for i, v := range res.Resampled {
		if math.Abs(v-want)/want > 1e-9 {
			t.Fatalf("resampled[%d] got %v want %v", i, v, want)
		}
	}
}

func TestNebularMetallicityOverrideNeedsHistory(t *testing.T) {
	n := 100
	wavs := linearGrid(4000, 10, n)

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		Nebular:     &fakeNebular{lines: constSlice(nebular.DefaultCatalog().Len(), 0), continuum: constSlice(n, 0)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Nebular = &NebularParams{LogU: -3, Metallicity: 0.008}

	if _, err := syn.Update(comp, UpdateOptions{}); err != ErrNoNebHistory {
		t.Fatalf("metallicity override without NebHistory: got %v", err)
	}
}

func TestNebularMetallicityOverrideUsesNebHistory(t *testing.T) {
	n := 100
	wavs := linearGrid(4000, 10, n)

	nebHist := &fakeHistory{grid: [][]float64{{2}}}

	syn, err := NewSynthesizer(Config{
		Wavelengths: wavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		NebHistory:  nebHist,
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 1)},
		Nebular:     &fakeNebular{lines: constSlice(nebular.DefaultCatalog().Len(), 0), continuum: constSlice(n, 0)},
		IGM:         igm.NewUnity(n),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := sfhOnly()
	comp.Nebular = &NebularParams{LogU: -3, Metallicity: 0.008}

	if _, err := syn.Update(comp, UpdateOptions{}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if nebHist.updates != 1 {
		t.Fatalf("nebular history updates got %d want 1", nebHist.updates)
	}

	got := nebHist.last.SFH["burst"]["metallicity"]
	if got != 0.008 {
		t.Fatalf("override metallicity got %v want 0.008", got)
	}
}

func TestUpdateIsDeterministic(t *testing.T) {
	n := 300
	wavs := logGrid(800, 30000, n)
	outWavs := linearGrid(9000, 40, 200)

	catalog := nebular.DefaultCatalog()
	lines := constSlice(catalog.Len(), 0)
	if i, ok := catalog.Index("O  3  5006.84A"); ok {
		lines[i] = 40
	}

	cfg := Config{
		Wavelengths: wavs,
		OutputWavs:  outWavs,
		History:     &fakeHistory{grid: [][]float64{{1}}},
		Stellar:     &fakeStellar{bc: constSlice(n, 1), diffuse: constSlice(n, 2)},
		Nebular:     &fakeNebular{lines: lines, continuum: constSlice(n, 0.5)},
		AGN:         &fakeAGN{spec: constSlice(n, 4)},
		Dust:        dust.Calzetti(wavs, catalog.Wavelengths()),
		Filters:     []filters.Filter{filters.TopHat("band", 10000, 12000)},
	}

	syn, err := NewSynthesizer(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	comp := Components{
		Redshift: 1.2,
		VelDisp:  200,
		SFH:      sfhOnly().SFH,
		Dust:     &DustParams{Av: 0.4, Eta: 1.5},
		Nebular:  &NebularParams{LogU: -2.5, VelShift: 120},
		AGN:      map[string]float64{"slope": -1.5},
		DLA:      &DLAParams{ColumnDensity: 1e20, Redshift: 1.05},
	}

	opts := UpdateOptions{RemoveLines: []string{"O  3  5006.84A"}}

	first, err := syn.Update(comp, opts)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}

	second, err := syn.Update(comp, opts)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("repeated update differs (-first +second):\n%s", diff)
	}
}
