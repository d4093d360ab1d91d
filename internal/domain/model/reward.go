package model

import "strings"

// RewardType identifies a redemption target.
type RewardType string

const (
	RewardAmazonUS RewardType = "amazon-us"
	RewardAmazonUK RewardType = "amazon-uk"
	RewardTesco    RewardType = "tesco"
	RewardAldi     RewardType = "aldi"
	RewardLTC      RewardType = "ltc"
)

// DeliveryField names the single destination field a reward needs.
type DeliveryField string

const (
	DeliveryEmail  DeliveryField = "email"
	DeliveryWallet DeliveryField = "walletAddress"
)

// Reward describes a catalog entry.
type Reward struct {
	Type     RewardType
	Name     string
	Delivery DeliveryField
}

var rewardCatalog = []Reward{
	{Type: RewardAmazonUS, Name: "Amazon US Gift Card", Delivery: DeliveryEmail},
	{Type: RewardAmazonUK, Name: "Amazon UK Gift Card", Delivery: DeliveryEmail},
	{Type: RewardTesco, Name: "Tesco Gift Card", Delivery: DeliveryEmail},
	{Type: RewardAldi, Name: "Aldi Gift Card", Delivery: DeliveryEmail},
	{Type: RewardLTC, Name: "Litecoin", Delivery: DeliveryWallet},
}

// Rewards returns a copy of the reward catalog.
func Rewards() []Reward {
	out := make([]Reward, len(rewardCatalog))
	copy(out, rewardCatalog)
	return out
}

// LookupReward finds a catalog entry by its identifier.
func LookupReward(id string) (Reward, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, r := range rewardCatalog {
		if string(r.Type) == id {
			return r, true
		}
	}
	return Reward{}, false
}
