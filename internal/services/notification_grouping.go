package services

import (
	"sort"
	"time"

	"market-service/internal/models"
)

const DefaultGroupWindow = 24 * time.Hour

var lessPreferenceDropped = map[models.NotificationReason]bool{
	models.ReasonOnContractWithUsersComment:   true,
	models.ReasonOnContractWithUsersAnswer:    true,
	models.ReasonOnContractWithUsersSharesOut: true,
}

// FilterByPreference applies the user's in-app preference. An empty
// preference behaves like "all".
func FilterByPreference(notifications []models.Notification, pref models.NotificationSubscribeType) []models.Notification {
	if pref == models.SubscribeNone {
		return nil
	}
	if pref != models.SubscribeLess {
		return notifications
	}
	kept := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		if lessPreferenceDropped[n.Reason] {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// GroupNotifications buckets notifications about the same contract when each
// one is within window of the previous member. Notifications without a
// contract always form their own group. Groups come out newest first and
// take their seen state from their newest member.
func GroupNotifications(notifications []models.Notification, window time.Duration) []models.NotificationGroup {
	if window <= 0 {
		window = DefaultGroupWindow
	}

	sorted := make([]models.Notification, len(notifications))
	copy(sorted, notifications)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedTime > sorted[j].CreatedTime
	})

	var groups []models.NotificationGroup
	open := make(map[string]int)
	for _, n := range sorted {
		if n.SourceContractID != "" {
			if idx, ok := open[n.SourceContractID]; ok {
				g := &groups[idx]
				last := g.Notifications[len(g.Notifications)-1]
				if time.Duration(last.CreatedTime-n.CreatedTime)*time.Millisecond <= window {
					g.Notifications = append(g.Notifications, n)
					continue
				}
			}
			open[n.SourceContractID] = len(groups)
		}

		groups = append(groups, models.NotificationGroup{
			ID:               n.ID,
			SourceContractID: n.SourceContractID,
			TimePeriod:       time.UnixMilli(n.CreatedTime).UTC().Format("Mon Jan 02 2006"),
			IsSeen:           n.IsSeen,
			Notifications:    []models.Notification{n},
		})
	}
	return groups
}
