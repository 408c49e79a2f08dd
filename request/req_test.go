package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProbe(t *testing.T, body string) UserBodyProbe {
	t.Helper()
	var p UserBodyProbe
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestUserBodyProbe(t *testing.T) {
	p := decodeProbe(t, `{"uId":"u1","newPlanText":"PRO"}`)
	plan, ok := p.PlanText()
	assert.True(t, ok)
	assert.Equal(t, "PRO", plan)
	assert.False(t, p.IsPoolRequest())

	p = decodeProbe(t, `{"uId":"u1","newUserType":"DEGEN"}`)
	plan, ok = p.PlanText()
	assert.True(t, ok)
	assert.Equal(t, "DEGEN", plan)

	p = decodeProbe(t, `{"uId":"u1","protocol":"ekubo","pool":{"token0":"ETH","token1":"USDC"}}`)
	assert.True(t, p.IsPoolRequest())
	_, ok = p.PlanText()
	assert.False(t, ok)

	p = decodeProbe(t, `{"_id":"65f000000000000000000000","email":"a@x.com"}`)
	assert.False(t, p.IsPoolRequest())
	_, ok = p.PlanText()
	assert.False(t, ok)
}

func TestUpdateUserReqPatch(t *testing.T) {
	var r UpdateUserReq
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"x","email":"a@x.com","ekubo_fav_pools":[]}`), &r))

	patch := r.Patch()
	require.NotNil(t, patch.Email)
	assert.Equal(t, "a@x.com", *patch.Email)
	assert.NotNil(t, patch.FavPools, "explicit empty list clears favorites")
	assert.Empty(t, patch.FavPools)
	assert.Nil(t, patch.UID)

	r = UpdateUserReq{}
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"x","remaining_requests":3}`), &r))
	patch = r.Patch()
	assert.Nil(t, patch.FavPools)
	require.NotNil(t, patch.RemainingRequests)
	assert.Equal(t, int64(3), *patch.RemainingRequests)
}

func TestUserBodyProbeNullPoolIsAbsent(t *testing.T) {
	p := decodeProbe(t, `{"_id":"65f000000000000000000000","email":"a@x.com","pool":null}`)
	assert.False(t, p.IsPoolRequest())

	p = decodeProbe(t, `{"uId":"u1","pool":{}}`)
	assert.True(t, p.IsPoolRequest())
}
