package availability

// HasConflict пересекается ли запрошенный интервал хотя бы с одним из existing.
// Тот же предикат используется генератором слотов, поэтому слот,
// показанный свободным, пройдёт и проверку при записи.
func HasConflict(requested Interval, existing []Interval) bool {
	for _, e := range existing {
		if requested.Overlaps(e) {
			return true
		}
	}
	return false
}
