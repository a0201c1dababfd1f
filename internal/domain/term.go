package domain

// RisingTerm is one weekly observation of a rising search term for a
// designated market area (DMA).
type RisingTerm struct {
	RefreshDate string `json:"refresh_date"`
	DmaName     string `json:"dma_name"`
	DmaID       int64  `json:"dma_id"`
	Term        string `json:"term"`
	Week        string `json:"week"`
	Score       int64  `json:"score"`
	Rank        int64  `json:"rank"`
	PercentGain int64  `json:"percent_gain"`
}

// Validate checks that the observation is well-formed enough to insert.
func (t *RisingTerm) Validate() error {
	if t.Term == "" {
		return ErrValidation("term is required")
	}
	if t.Week == "" {
		return ErrValidation("week is required")
	}
	if t.RefreshDate == "" {
		return ErrValidation("refresh_date is required")
	}
	return nil
}
