package query

import "github.com/rpattn/neoql/internal/domain"

// Run builds the full evaluation chain over the approaches: conjunction
// of the criteria's filters, optional ordering, optional limit. The
// returned stream is lazy; nothing is examined until it is pulled.
func Run(approaches []*domain.CloseApproach, criteria domain.Criteria, s domain.Sort, limit int) Stream {
	stream := Filtered(FromSlice(approaches), criteria.Filters())
	stream = Sorted(stream, s)
	return Limited(stream, limit)
}
