package domain

// WeekCount is the number of users who joined in an ISO week ("2024-W07")
type WeekCount struct {
	Week  string
	Count int
}

// CountryCount is the number of active users from a country
type CountryCount struct {
	Country string
	Count   int
}

// StatsSnapshot is a read-only rollup over users, computed on demand
type StatsSnapshot struct {
	Active      int
	Left        int
	NewToday    int
	NewThisWeek int
	RecentDays  []Day
	Countries   []CountryCount
}

// TopicProgress is how many words of a topic a user has seen
type TopicProgress struct {
	Topic string
	Seen  int
	Total int
}

// Progress summarizes a user's learned words
type Progress struct {
	TotalSeen int
	Topics    []TopicProgress
}
