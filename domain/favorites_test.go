package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
)

func ethUSDC() entity.Pool {
	return entity.Pool{Token0: "ETH", Token1: "USDC", Fee: 30, TickSpacing: 60}
}

func TestSamePool(t *testing.T) {
	base := ethUSDC()

	withLogos := base
	withLogos.Token0LogoURL = "https://logos/eth.png"
	assert.True(t, SamePool(base, withLogos), "logo urls are not part of identity")

	otherFee := base
	otherFee.Fee = 5
	assert.False(t, SamePool(base, otherFee))

	otherSpacing := base
	otherSpacing.TickSpacing = 10
	assert.False(t, SamePool(base, otherSpacing))

	swapped := entity.Pool{Token0: "USDC", Token1: "ETH", Fee: 30, TickSpacing: 60}
	assert.False(t, SamePool(base, swapped))

	a := entity.Pool{Token0: "0x049D36570D4e46f48e99674bd3fcc84644DdD6b96F7C741B1562B82f9e004dC7", Token1: "USDC"}
	b := entity.Pool{Token0: "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", Token1: "USDC"}
	assert.True(t, SamePool(a, b), "hex addresses compare case-insensitively")

	assert.False(t, SamePool(entity.Pool{Token0: "eth"}, entity.Pool{Token0: "ETH"}))
}

func TestAddPool(t *testing.T) {
	pools, added := AddPool(nil, ethUSDC())
	assert.True(t, added)
	assert.Len(t, pools, 1)

	again, added := AddPool(pools, ethUSDC())
	assert.False(t, added)
	assert.Equal(t, pools, again)
}

func TestAddPoolDoesNotAliasInput(t *testing.T) {
	in := make([]entity.Pool, 1, 4)
	in[0] = entity.Pool{Token0: "STRK", Token1: "USDC", Fee: 5, TickSpacing: 1}

	out, added := AddPool(in, ethUSDC())
	assert.True(t, added)
	assert.Len(t, in, 1)
	assert.Len(t, out, 2)

	out[0].Token0 = "changed"
	assert.Equal(t, "STRK", in[0].Token0)
}

func TestRemovePool(t *testing.T) {
	other := entity.Pool{Token0: "STRK", Token1: "USDC", Fee: 5, TickSpacing: 1}
	pools := []entity.Pool{ethUSDC(), other}

	out, removed := RemovePool(pools, ethUSDC())
	assert.True(t, removed)
	assert.Equal(t, []entity.Pool{other}, out)

	out, removed = RemovePool(out, ethUSDC())
	assert.False(t, removed)
	assert.Equal(t, []entity.Pool{other}, out)
}

func TestRemoveThenAddRestores(t *testing.T) {
	pools := []entity.Pool{ethUSDC()}

	pools, _ = RemovePool(pools, ethUSDC())
	assert.Empty(t, pools)

	pools, _ = AddPool(pools, ethUSDC())
	assert.Equal(t, []entity.Pool{ethUSDC()}, pools)
}

func TestDedupePools(t *testing.T) {
	assert.Nil(t, DedupePools(nil))

	dup := ethUSDC()
	dup.Token1LogoURL = "https://logos/usdc.png"
	other := entity.Pool{Token0: "STRK", Token1: "ETH", Fee: 30, TickSpacing: 60}

	out := DedupePools([]entity.Pool{ethUSDC(), other, dup})
	assert.Equal(t, []entity.Pool{ethUSDC(), other}, out)
}

func TestIsSupportedProtocol(t *testing.T) {
	assert.True(t, IsSupportedProtocol("ekubo"))
	assert.True(t, IsSupportedProtocol(" Ekubo "))
	assert.False(t, IsSupportedProtocol("uniswap"))
	assert.False(t, IsSupportedProtocol(""))
}
