// internal/workers/planning/sequential-coordinator/config.go
package sequentialcoordinator

type Config struct {
	ShoppingUnavailable  string
	TransportUnavailable string
	// PrecipitationNoteAbove is the chance of rain (percent) above which the forecast shows it.
	PrecipitationNoteAbove int
}

func LoadConfig() *Config {
	return &Config{
		ShoppingUnavailable:    "Unable to get shopping recommendations at this time.",
		TransportUnavailable:   "Unable to get taxi recommendations at this time.",
		PrecipitationNoteAbove: 30,
	}
}
