package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"market-service/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const moneyMoniker = "M$"

var moneyPrinter = message.NewPrinter(language.English)

// isAboutContractResolution also covers notifications written before
// sourceUpdateType existed, using the contract's resolution instead.
func isAboutContractResolution(n *models.Notification, contract *models.Contract) bool {
	if n.SourceType != models.SourceTypeContract {
		return false
	}
	if n.SourceUpdateType == models.SourceUpdateResolved {
		return true
	}
	return n.SourceUpdateType == "" && contract != nil && contract.Resolution != ""
}

// ReasonPhrase is the verb phrase shown after the source user's name. The
// simple form is used in group summaries.
func ReasonPhrase(n *models.Notification, contract *models.Contract, simple bool) string {
	pick := func(full, short string) string {
		if simple {
			return short
		}
		return full
	}

	switch n.SourceType {
	case models.SourceTypeComment:
		switch n.Reason {
		case models.ReasonReplyToUsersAnswer:
			return pick("replied to your answer on", "replied")
		case models.ReasonTaggedUser:
			return pick("tagged you in a comment on", "tagged you")
		case models.ReasonReplyToUsersComment:
			return pick("replied to your comment on", "replied")
		case models.ReasonOnUsersContract:
			return pick("commented on your question", "commented")
		case models.ReasonOnContractWithUsersSharesIn:
			return "commented"
		default:
			return "commented on"
		}
	case models.SourceTypeContract:
		switch {
		case n.Reason == models.ReasonYouFollowUser:
			return "created a new question"
		case isAboutContractResolution(n, contract):
			return "resolved"
		case n.SourceUpdateType == models.SourceUpdateClosed:
			return "please resolve your question"
		default:
			return "updated"
		}
	case models.SourceTypeAnswer:
		if n.Reason == models.ReasonOnUsersContract {
			return "answered your question "
		}
		return "answered"
	case models.SourceTypeFollow:
		return "followed you"
	case models.SourceTypeLiquidity:
		return "added liquidity to your question"
	case models.SourceTypeGroup:
		return "added you to the group"
	default:
		return ""
	}
}

// SummaryPhrase drops the trailing preposition of the simple phrase.
func SummaryPhrase(n *models.Notification, contract *models.Contract) string {
	return strings.Replace(ReasonPhrase(n, contract, true), " on", "", 1)
}

// TextLabel turns the display text into what is shown under the header.
func TextLabel(n *models.Notification, contract *models.Contract, displayText string, justSummary bool) string {
	switch n.SourceType {
	case models.SourceTypeContract:
		if justSummary {
			if contract != nil && contract.Question != "" {
				return contract.Question
			}
			return n.SourceContractTitle
		}
		if n.SourceText == "" {
			return ""
		}
		if isAboutContractResolution(n, contract) {
			if label, ok := outcomeLabel(n.SourceText); ok {
				return label
			}
		}
		if n.SourceUpdateType == models.SourceUpdateClosed {
			return ""
		}
		if ms, ok := leadingInt(n.SourceText); ok && ms > 0 {
			return "Updated close time: " + formatLocalTime(time.UnixMilli(ms))
		}
	case models.SourceTypeLiquidity:
		if n.SourceText != "" {
			amount, _ := leadingInt(n.SourceText)
			return FormatMoney(float64(amount))
		}
	}
	return displayText
}

func outcomeLabel(resolution string) (string, bool) {
	switch {
	case resolution == "YES" || resolution == "NO":
		return resolution, true
	case strings.Contains(resolution, "%"):
		prob, err := strconv.ParseFloat(strings.Replace(resolution, "%", "", 1), 64)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%s%%", strconv.FormatFloat(prob, 'f', -1, 64)), true
	case resolution == "CANCEL":
		return "N/A", true
	case resolution == "MKT" || resolution == "PROB":
		return "MANY", true
	}
	return "", false
}

// leadingInt reads an optionally signed run of digits at the start of s,
// ignoring leading whitespace, and reports whether any digit was found.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatLocalTime(t time.Time) string {
	return t.UTC().Format("1/2/2006, 3:04:05 PM")
}

// FormatMoney renders an amount like M$1,234. Amounts that round to zero
// show as zero; everything else is floored.
func FormatMoney(amount float64) string {
	var whole int64
	if math.Round(amount) != 0 {
		whole = int64(math.Floor(amount))
	}
	return moneyMoniker + moneyPrinter.Sprintf("%d", whole)
}
