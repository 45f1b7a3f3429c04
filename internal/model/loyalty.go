package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Rank orders tiers from bronze upwards. Unknown tiers rank below bronze.
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierPlatinum:
		return 4
	}
	return 0
}

type LoyaltyTransactionType string

const (
	LoyaltyEarned   LoyaltyTransactionType = "earned"
	LoyaltyRedeemed LoyaltyTransactionType = "redeemed"
	LoyaltyAdjusted LoyaltyTransactionType = "adjusted"
	LoyaltyExpired  LoyaltyTransactionType = "expired"
)

type LoyaltyAccount struct {
	ID               int64     `json:"ID"`
	BusinessID       int64     `json:"businessID"`
	CustomerID       int64     `json:"customerID"`
	PointsBalance    int64     `json:"pointsBalance"`
	LifetimeEarned   int64     `json:"lifetimeEarned"`
	LifetimeRedeemed int64     `json:"lifetimeRedeemed"`
	Tier             Tier      `json:"tier"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type LoyaltyTransaction struct {
	ID           int64                  `json:"ID"`
	AccountID    int64                  `json:"accountID"`
	Type         LoyaltyTransactionType `json:"type"`
	PointsDelta  int64                  `json:"pointsDelta"`
	BalanceAfter int64                  `json:"balanceAfter"`
	OrderID      *int64                 `json:"orderID,omitempty"`
	Description  string                 `json:"description,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// TierThresholds holds the lifetime-earned cutoffs for each paid tier.
// A nil threshold means the tier is not offered by the business.
type TierThresholds struct {
	Silver   *int64 `json:"silver"`
	Gold     *int64 `json:"gold"`
	Platinum *int64 `json:"platinum"`
}

type LoyaltySettings struct {
	BusinessID      int64            `json:"businessID"`
	IsEnabled       bool             `json:"isEnabled"`
	PointsPerDollar int64            `json:"pointsPerDollar"`
	MinimumSpend    *decimal.Decimal `json:"minimumSpend,omitempty"`
	TierThresholds  TierThresholds   `json:"tierThresholds"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// DefaultLoyaltySettings is what a business gets before it ever saves
// settings: the program exists but is switched off.
func DefaultLoyaltySettings(businessID int64) LoyaltySettings {
	return LoyaltySettings{
		BusinessID:      businessID,
		IsEnabled:       false,
		PointsPerDollar: 1,
	}
}

type LoyaltyAccountView struct {
	Account      LoyaltyAccount       `json:"account"`
	Transactions []LoyaltyTransaction `json:"transactions"`
}

type RedeemInput struct {
	Points  int64  `json:"points"`
	OrderID *int64 `json:"orderID"`
}

type AdjustInput struct {
	Points      int64  `json:"points"`
	Description string `json:"description"`
}

type LoyaltySettingsInput struct {
	IsEnabled       bool             `json:"isEnabled"`
	PointsPerDollar int64            `json:"pointsPerDollar"`
	MinimumSpend    *decimal.Decimal `json:"minimumSpend"`
	TierThresholds  TierThresholds   `json:"tierThresholds"`
}
