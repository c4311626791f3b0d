package Scheduling

// SessionsCovered decides how many leading sessions a payment settles. A
// payment covering the whole package value settles every session; anything
// less settles floor(amount / perSession) sessions in schedule order.
func SessionsCovered(amount, perSession float64, totalSessions int) int {
	if totalSessions <= 0 || amount <= 0 || perSession <= 0 {
		return 0
	}
	if amount >= perSession*float64(totalSessions) {
		return totalSessions
	}
	covered := int(amount / perSession)
	if covered > totalSessions {
		covered = totalSessions
	}
	return covered
}
