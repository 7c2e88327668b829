package entity

// Bus is a common electrical node at a fixed nominal voltage.
type Bus struct {
	Base `json:"-" yaml:"-"`
	KV   float64 `json:"kv" yaml:"kv" validate:"gt=0"`
}

func (*Bus) Kind() Kind           { return KindBus }
func (b *Bus) NominalKV() float64 { return b.KV }

// Bay groups the switching and protection equipment of one circuit.
type Bay struct {
	Base     `json:"-" yaml:"-"`
	Function BayFunction `json:"kind" yaml:"kind" validate:"required,bayfunction"`
	KV       float64     `json:"kv" yaml:"kv" validate:"gt=0"`
	Bus      string      `json:"bus" yaml:"bus" validate:"required,entityid"`
}

func (*Bay) Kind() Kind           { return KindBay }
func (b *Bay) NominalKV() float64 { return b.KV }

func (b *Bay) References() []Reference {
	return []Reference{{Attribute: "bus", ID: b.Bus}}
}

// Breaker is a circuit breaker.
type Breaker struct {
	Base           `json:"-" yaml:"-"`
	KV             float64     `json:"kv" yaml:"kv" validate:"gt=0"`
	InterruptingKA float64     `json:"interrupting_kA" yaml:"interrupting_kA" validate:"gt=0"`
	Type           BreakerType `json:"type" yaml:"type" validate:"required"`
	ContinuousA    float64     `json:"continuous_A" yaml:"continuous_A" validate:"gt=0"`
}

func (*Breaker) Kind() Kind                  { return KindBreaker }
func (b *Breaker) NominalKV() float64        { return b.KV }
func (b *Breaker) ContinuousRating() float64 { return b.ContinuousA }

// Disconnector is an isolating switch.
type Disconnector struct {
	Base        `json:"-" yaml:"-"`
	KV          float64          `json:"kv" yaml:"kv" validate:"gt=0"`
	Type        DisconnectorType `json:"type" yaml:"type" validate:"required"`
	ContinuousA float64          `json:"continuous_A" yaml:"continuous_A" validate:"gt=0"`
}

func (*Disconnector) Kind() Kind                  { return KindDisconnector }
func (d *Disconnector) NominalKV() float64        { return d.KV }
func (d *Disconnector) ContinuousRating() float64 { return d.ContinuousA }

// Transformer changes voltage between the entities on either side of it.
type Transformer struct {
	Base        `json:"-" yaml:"-"`
	Type        WindingConfig `json:"type" yaml:"type" validate:"required,winding"`
	RatedMVA    float64       `json:"rated_MVA" yaml:"rated_MVA" validate:"gt=0"`
	VectorGroup string        `json:"vector_group" yaml:"vector_group" validate:"required"`
	PercentZ    float64       `json:"percentZ" yaml:"percentZ" validate:"gt=0"`
}

func (*Transformer) Kind() Kind { return KindTransformer }

// Line is an overhead line or underground cable leaving the substation.
type Line struct {
	Base     `json:"-" yaml:"-"`
	KV       float64          `json:"kv" yaml:"kv" validate:"gt=0"`
	Type     LineConstruction `json:"type" yaml:"type" validate:"required,construction"`
	LengthKM float64          `json:"length_km" yaml:"length_km" validate:"gte=0"`
	ThermalA float64          `json:"thermal_A" yaml:"thermal_A" validate:"gt=0"`
}

func (*Line) Kind() Kind           { return KindLine }
func (l *Line) NominalKV() float64 { return l.KV }

// Coupler joins two buses.
type Coupler struct {
	Base    `json:"-" yaml:"-"`
	KV      float64 `json:"kv" yaml:"kv" validate:"gt=0"`
	FromBus string  `json:"from_bus" yaml:"from_bus" validate:"required,entityid"`
	ToBus   string  `json:"to_bus" yaml:"to_bus" validate:"required,entityid"`
}

func (*Coupler) Kind() Kind           { return KindCoupler }
func (c *Coupler) NominalKV() float64 { return c.KV }

func (c *Coupler) References() []Reference {
	return []Reference{
		{Attribute: "from_bus", ID: c.FromBus},
		{Attribute: "to_bus", ID: c.ToBus},
	}
}
