package models

// Stats is the aggregate view over one collection. Every canonical label is
// always present in both maps; averages are rounded to 3 decimals and are 0
// (never NaN) for labels with no documents. Total counts every document in the
// collection regardless of label.
type Stats struct {
	Total                int               `json:"total"`
	CountsByLabel        map[Label]int     `json:"countsByLabel"`
	AvgConfidenceByLabel map[Label]float64 `json:"avgConfidenceByLabel"`
}
