package services

import "market-service/internal/models"

// currentInvestment is what a user still has at stake in a contract: the
// amounts of bets that were neither sold, nor sale records, nor redemptions.
// Sell bets carry negative amounts and reduce it. Never below zero.
func currentInvestment(bets []models.Bet) float64 {
	invested := 0.0
	for _, bet := range bets {
		if bet.IsSold || bet.Sale != nil || bet.IsRedemption {
			continue
		}
		invested += bet.Amount
	}
	if invested < 0 {
		return 0
	}
	return invested
}

// uniqueUserIDs dedupes ids keeping first-seen order.
func uniqueUserIDs[T any](items []T, userID func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id := userID(item)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
