package model

// SimulationInputs bundles the two raw measurement series of a site.
// Neither series needs to share the other's sampling; the series package
// projects both onto a common grid before dispatch.
type SimulationInputs struct {
	Load      []LoadSample      `json:"load"`
	Balancing []BalancingSample `json:"balancing"`
}
