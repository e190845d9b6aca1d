package gencsv

// Default generation parameters.
const (
	defaultNumCharacters = 200
	defaultHighRatio     = 0.15
	defaultMidRatio      = 0.15
	defaultReserveRatio  = 0.30
	defaultHighValue     = 8
	defaultMidValue      = 7
	defaultMaxStat       = 10
	defaultSeed          = 42
)

// Config controls synthetic catalog generation.
type Config struct {
	// NumCharacters is the number of rows to generate.
	NumCharacters int

	// HighRatio and MidRatio are the approximate fractions of characters
	// pinned to the high and mid tier values on every stat-eligible roll.
	HighRatio float64
	MidRatio  float64

	// ReserveRatio is the approximate fraction of characters granted
	// reserve-qualifying special text.
	ReserveRatio float64

	// HighValue and MidValue are the tier stat values to pin to.
	HighValue int
	MidValue  int

	// MaxStat bounds ordinary stat rolls (exclusive of tier pins).
	MaxStat int

	// Seed makes generation reproducible.
	Seed int64
}

// DefaultConfig returns generation defaults sized for enumerator
// benchmarking.
func DefaultConfig() *Config {
	return &Config{
		NumCharacters: defaultNumCharacters,
		HighRatio:     defaultHighRatio,
		MidRatio:      defaultMidRatio,
		ReserveRatio:  defaultReserveRatio,
		HighValue:     defaultHighValue,
		MidValue:      defaultMidValue,
		MaxStat:       defaultMaxStat,
		Seed:          defaultSeed,
	}
}
