package metrics

// TpsGasRecord is the per-block transaction and gas tally. Turning it into
// throughput figures is left to the displayer.
type TpsGasRecord struct {
	Txs uint64 `json:"txs"`
	Gas uint64 `json:"gas"`
}
