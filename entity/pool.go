package entity

// Pool is a liquidity pool a user marked as favorite.
type Pool struct {
	Token0        string  `bson:"token0" json:"token0" binding:"required"`
	Token1        string  `bson:"token1" json:"token1" binding:"required"`
	Fee           float64 `bson:"fee" json:"fee"`
	TickSpacing   int64   `bson:"tickSpacing" json:"tickSpacing"`
	Token0LogoURL string  `bson:"token0LogoUrl,omitempty" json:"token0LogoUrl,omitempty"`
	Token1LogoURL string  `bson:"token1LogoUrl,omitempty" json:"token1LogoUrl,omitempty"`
}
