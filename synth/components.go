package synth

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Default values substituted for unset optional parameters.
const (
	defaultTBC   = 0.01
	defaultEta   = 1.0
	defaultQPAH  = 2.0
	defaultUMin  = 1.0
	defaultGamma = 0.01
)

// DustParams configures dust attenuation and re-emission. Zero values
// select the documented defaults.
type DustParams struct {
	Av    float64 `yaml:"av"`    // V-band attenuation, magnitudes
	Eta   float64 `yaml:"eta"`   // extra birth-cloud attenuation factor; default 1
	QPAH  float64 `yaml:"qpah"`  // PAH mass fraction; default 2.0
	UMin  float64 `yaml:"umin"`  // minimum radiation field; default 1.0
	Gamma float64 `yaml:"gamma"` // warm-dust fraction; default 0.01
}

func (d *DustParams) eta() float64 {
	if d.Eta == 0 {
		return defaultEta
	}

	return d.Eta
}

func (d *DustParams) emissionParams() (qpah, umin, gamma float64) {
	qpah, umin, gamma = defaultQPAH, defaultUMin, defaultGamma

	if d.QPAH != 0 {
		qpah = d.QPAH
	}

	if d.UMin != 0 {
		umin = d.UMin
	}

	if d.Gamma != 0 {
		gamma = d.Gamma
	}

	return qpah, umin, gamma
}

// NebularParams configures nebular line and continuum emission.
type NebularParams struct {
	LogU        float64 `yaml:"logu"`        // ionization parameter
	Metallicity float64 `yaml:"metallicity"` // >0 overrides the SFH metallicity
	VelShift    float64 `yaml:"velshift"`    // line velocity shift, km/s
}

// DLAParams configures a foreground damped Lyman-alpha absorber.
type DLAParams struct {
	ColumnDensity float64 `yaml:"t"`    // hydrogen column density, cm^-2
	Redshift      float64 `yaml:"zabs"` // absorber redshift
}

// Components holds the physical parameters of one model evaluation.
// A nil sub-struct disables that component. SFH parameters are opaque
// to this package and are consumed whole by the history collaborator.
type Components struct {
	Redshift float64 `yaml:"redshift"`
	TBC      float64 `yaml:"t_bc"`    // birth-cloud age threshold, Gyr; default 0.01
	VelDisp  float64 `yaml:"veldisp"` // velocity dispersion, km/s; 0 disables

	SFH     map[string]map[string]float64 `yaml:"sfh"`
	Dust    *DustParams                   `yaml:"dust"`
	Nebular *NebularParams                `yaml:"nebular"`
	AGN     map[string]float64            `yaml:"agn"`
	DLA     *DLAParams                    `yaml:"dla"`
}

func (c Components) birthCloudAge() float64 {
	if c.TBC > 0 {
		return c.TBC
	}

	return defaultTBC
}

// withNebularMetallicity returns a copy of c whose SFH sub-components
// have their metallicity replaced, for components that declare one.
// The copy is deep with respect to the SFH maps.
func (c Components) withNebularMetallicity(z float64) Components {
	out := c
	out.SFH = make(map[string]map[string]float64, len(c.SFH))

	for name, params := range c.SFH {
		cp := make(map[string]float64, len(params))
		for k, v := range params {
			cp[k] = v
		}

		if _, ok := cp["metallicity"]; ok {
			cp["metallicity"] = z
		}

		out.SFH[name] = cp
	}

	return out
}

// ParseComponents decodes a YAML document into Components.
func ParseComponents(data []byte) (Components, error) {
	var c Components
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Components{}, fmt.Errorf("synth: parsing components: %w", err)
	}

	if c.Redshift < 0 {
		return Components{}, fmt.Errorf("synth: negative redshift %v", c.Redshift)
	}

	return c, nil
}
