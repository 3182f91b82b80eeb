package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"market-service/internal/models"
)

const (
	FixedAnte                = 100
	HouseLiquidityProviderID = "IPTOzEqrpkWmEzh6hwvAyY9PqFb2"
	noneAnswerID             = "0"
)

var hashtagPattern = regexp.MustCompile(`(?i)(?:^|\s)#[a-z0-9_]+`)

// parseTags extracts #hashtags, keeping the first spelling of each.
func parseTags(text string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, m := range hashtagPattern.FindAllString(text, -1) {
		tag := strings.TrimSpace(m)[1:]
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}

type newContractParams struct {
	ID          string
	Slug        string
	Creator     *models.User
	Question    string
	Description string
	OutcomeType models.OutcomeType
	InitialProb float64
	Ante        float64
	CloseTime   int64
	ExtraTags   []string
	Min         float64
	Max         float64
	Group       *models.Group
	CreatedTime int64
}

func newContract(p newContractParams) *models.Contract {
	hashExtra := make([]string, 0, len(p.ExtraTags))
	for _, t := range p.ExtraTags {
		hashExtra = append(hashExtra, "#"+t)
	}
	tags := parseTags(p.Question + " " + p.Description + " " + strings.Join(hashExtra, " "))
	lowercaseTags := make([]string, len(tags))
	for i, t := range tags {
		lowercaseTags[i] = strings.ToLower(t)
	}

	c := &models.Contract{
		ID:               p.ID,
		Slug:             p.Slug,
		CreatorID:        p.Creator.ID,
		CreatorName:      p.Creator.Name,
		CreatorUsername:  p.Creator.Username,
		CreatorAvatarURL: p.Creator.AvatarURL,
		Question:         strings.TrimSpace(p.Question),
		Description:      strings.TrimSpace(p.Description),
		Tags:             tags,
		LowercaseTags:    lowercaseTags,
		Visibility:       "public",
		OutcomeType:      p.OutcomeType,
		CreatedTime:      p.CreatedTime,
		CloseTime:        p.CloseTime,
	}
	if p.Group != nil {
		c.GroupDetails = []models.GroupDetails{{
			GroupID:   p.Group.ID,
			GroupName: p.Group.Name,
			GroupSlug: p.Group.Slug,
		}}
	}

	switch p.OutcomeType {
	case models.OutcomeBinary:
		prob := p.InitialProb / 100
		c.Mechanism = models.MechanismCPMM1
		c.Pool = map[string]float64{"YES": p.Ante, "NO": p.Ante}
		c.P = prob
		c.InitialProb = prob
		c.TotalLiquidity = p.Ante
	case models.OutcomeFreeResponse:
		c.Mechanism = models.MechanismDPM2
		c.Pool = map[string]float64{noneAnswerID: p.Ante}
		c.TotalShares = map[string]float64{noneAnswerID: p.Ante}
		c.TotalBets = map[string]float64{noneAnswerID: p.Ante}
		c.Answers = []models.Answer{}
	case models.OutcomeNumeric:
		betAnte, betShares := numericBucketAnte(p.Ante, models.NumericBucketCount)
		c.Mechanism = models.MechanismDPM2
		c.Pool = make(map[string]float64, models.NumericBucketCount)
		c.TotalShares = make(map[string]float64, models.NumericBucketCount)
		for i := range models.NumericBucketCount {
			bucket := strconv.Itoa(i)
			c.Pool[bucket] = betAnte
			c.TotalShares[bucket] = betShares
		}
		c.TotalBets = c.Pool
		c.BucketCount = models.NumericBucketCount
		c.Min = p.Min
		c.Max = p.Max
	}
	return c
}

func numericBucketAnte(ante float64, buckets int) (betAnte, betShares float64) {
	return ante / float64(buckets), math.Sqrt(ante * ante / float64(buckets))
}

func initialLiquidity(providerID string, contract *models.Contract, id string, amount float64) *models.LiquidityProvision {
	return &models.LiquidityProvision{
		ID:          id,
		UserID:      providerID,
		ContractID:  contract.ID,
		Amount:      amount,
		Liquidity:   amount,
		Pool:        map[string]float64{"YES": 0, "NO": 0},
		IsAnte:      true,
		CreatedTime: contract.CreatedTime,
	}
}

func noneAnswer(contractID string, creator *models.User, createdTime int64) *models.Answer {
	return &models.Answer{
		ID:          noneAnswerID,
		Number:      0,
		ContractID:  contractID,
		UserID:      creator.ID,
		Username:    creator.Username,
		Name:        creator.Name,
		AvatarURL:   creator.AvatarURL,
		Text:        "None",
		CreatedTime: createdTime,
	}
}

func freeAnswerAnte(bettorID string, contract *models.Contract, id string) *models.Bet {
	return &models.Bet{
		ID:          id,
		UserID:      bettorID,
		ContractID:  contract.ID,
		Amount:      contract.TotalBets[noneAnswerID],
		Shares:      contract.TotalShares[noneAnswerID],
		Outcome:     noneAnswerID,
		ProbBefore:  0,
		ProbAfter:   1,
		CreatedTime: contract.CreatedTime,
		IsAnte:      true,
	}
}

func numericAnte(bettorID string, contract *models.Contract, ante float64, id string) *models.Bet {
	buckets := contract.BucketCount
	betAnte, betShares := numericBucketAnte(ante, buckets)

	allOutcomeShares := make(map[string]float64, buckets)
	allBetAmounts := make(map[string]float64, buckets)
	for i := range buckets {
		bucket := strconv.Itoa(i)
		allOutcomeShares[bucket] = betShares
		allBetAmounts[bucket] = betAnte
	}

	return &models.Bet{
		ID:               id,
		UserID:           bettorID,
		ContractID:       contract.ID,
		Amount:           ante,
		Shares:           betShares * float64(buckets),
		Outcome:          noneAnswerID,
		AllOutcomeShares: allOutcomeShares,
		AllBetAmounts:    allBetAmounts,
		ProbBefore:       0,
		ProbAfter:        1 / float64(buckets),
		CreatedTime:      contract.CreatedTime,
		IsAnte:           true,
	}
}
