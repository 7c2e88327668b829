package entity

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// BayFunction is the circuit type a bay serves. It is a closed set.
type BayFunction string

const (
	BayLine        BayFunction = "LINE"
	BayTransformer BayFunction = "TRANSFORMER"
	BayFeeder      BayFunction = "FEEDER"
	BayCoupler     BayFunction = "COUPLER"
	BayShunt       BayFunction = "SHUNT"
	BayGenerator   BayFunction = "GENERATOR"
)

// BayFunctions lists every accepted bay function.
func BayFunctions() []string {
	return []string{
		string(BayLine), string(BayTransformer), string(BayFeeder),
		string(BayCoupler), string(BayShunt), string(BayGenerator),
	}
}

// WindingConfig is the winding arrangement of a transformer. Closed set.
type WindingConfig string

const (
	WindingAuto      WindingConfig = "AUTO"
	WindingTwo       WindingConfig = "TWO_WINDING"
	WindingThree     WindingConfig = "THREE_WINDING"
	WindingGrounding WindingConfig = "GROUNDING"
)

// WindingConfigs lists every accepted winding configuration.
func WindingConfigs() []string {
	return []string{string(WindingAuto), string(WindingTwo), string(WindingThree), string(WindingGrounding)}
}

// LineConstruction distinguishes overhead lines from underground cables.
type LineConstruction string

const (
	LineOverhead    LineConstruction = "OHL"
	LineUnderground LineConstruction = "UGC"
)

// LineConstructions lists every accepted construction type.
func LineConstructions() []string {
	return []string{string(LineOverhead), string(LineUnderground)}
}

// BreakerType is the interrupting technology of a breaker. The set is open:
// the well-known values below are recognised, any other identifier is kept
// verbatim as a custom technology.
type BreakerType string

const (
	BreakerSF6      BreakerType = "SF6"
	BreakerVacuum   BreakerType = "VACUUM"
	BreakerOil      BreakerType = "OIL"
	BreakerAirBlast BreakerType = "AIRBLAST"
)

var knownBreakerTypes = []BreakerType{BreakerSF6, BreakerVacuum, BreakerOil, BreakerAirBlast}

// Known reports whether t is one of the well-known technologies.
func (t BreakerType) Known() bool {
	return slices.Contains(knownBreakerTypes, t)
}

// DisconnectorType is the operating mechanism of a disconnector. Open set.
type DisconnectorType string

const (
	DisconnectorDoubleBreak DisconnectorType = "DOUBLE_BREAK"
	DisconnectorCenterBreak DisconnectorType = "CENTER_BREAK"
	DisconnectorPantograph  DisconnectorType = "PANTOGRAPH"
	DisconnectorEarthSwitch DisconnectorType = "EARTH_SWITCH_COMBINED"
)

var knownDisconnectorTypes = []DisconnectorType{
	DisconnectorDoubleBreak, DisconnectorCenterBreak, DisconnectorPantograph, DisconnectorEarthSwitch,
}

// Known reports whether t is one of the well-known mechanisms.
func (t DisconnectorType) Known() bool {
	return slices.Contains(knownDisconnectorTypes, t)
}

// customTypeRegex restricts custom open-set values to identifier tokens.
var customTypeRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ParseClosed returns raw if it is one of allowed, or an error listing the
// accepted values.
func ParseClosed(raw string, allowed []string) (string, error) {
	if slices.Contains(allowed, raw) {
		return raw, nil
	}
	return "", fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
}

// ParseOpen validates a value of an open classification. Well-known values
// and any identifier-shaped custom value are accepted.
func ParseOpen(raw string) (string, error) {
	if !customTypeRegex.MatchString(raw) {
		return "", fmt.Errorf("must be an identifier such as SF6 or CENTER_BREAK")
	}
	return raw, nil
}
