package enquiry

// Stats counts the loaded collection by status.
type Stats struct {
	Total        int `json:"total"`
	Contacted    int `json:"contacted"`
	Converted    int `json:"converted"`
	Interested   int `json:"interested"`
	NotResponded int `json:"notResponded"`
}

// ComputeStats counts leads per status. Total counts every lead.
func ComputeStats(leads []Lead) Stats {
	var s Stats
	for _, l := range leads {
		s.Add(l.Status, 1)
	}
	s.Total = len(leads)
	return s
}

// Add increments the bucket for st by n without touching Total.
func (s *Stats) Add(st Status, n int) {
	switch st {
	case StatusContacted:
		s.Contacted += n
	case StatusConverted:
		s.Converted += n
	case StatusInterested:
		s.Interested += n
	case StatusNotResponded:
		s.NotResponded += n
	}
}

// Count returns the bucket for st.
func (s Stats) Count(st Status) int {
	switch st {
	case StatusContacted:
		return s.Contacted
	case StatusConverted:
		return s.Converted
	case StatusInterested:
		return s.Interested
	case StatusNotResponded:
		return s.NotResponded
	default:
		return 0
	}
}

// ResolveStats prefers the numbers the backend sent alongside the list and
// only counts locally when it sent none.
func ResolveStats(server *Stats, leads []Lead) Stats {
	if server != nil {
		return *server
	}
	return ComputeStats(leads)
}
