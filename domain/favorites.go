package domain

import (
	"strings"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
)

// ProtocolEkubo is the only protocol whose pools can be favorited.
const ProtocolEkubo = "ekubo"

func IsSupportedProtocol(protocol string) bool {
	return strings.EqualFold(strings.TrimSpace(protocol), ProtocolEkubo)
}

// SamePool compares pools on (token0, token1, fee, tickSpacing). Logo URLs
// are display metadata and never affect identity.
func SamePool(a, b entity.Pool) bool {
	return sameToken(a.Token0, b.Token0) &&
		sameToken(a.Token1, b.Token1) &&
		a.Fee == b.Fee &&
		a.TickSpacing == b.TickSpacing
}

func sameToken(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if isHexAddress(a) && isHexAddress(b) {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func isHexAddress(s string) bool {
	return len(s) > 2 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"))
}

func ContainsPool(pools []entity.Pool, p entity.Pool) bool {
	for _, existing := range pools {
		if SamePool(existing, p) {
			return true
		}
	}
	return false
}

// AddPool appends p unless an equal pool is already present. The input slice
// is never modified.
func AddPool(pools []entity.Pool, p entity.Pool) ([]entity.Pool, bool) {
	if ContainsPool(pools, p) {
		return pools, false
	}
	out := make([]entity.Pool, 0, len(pools)+1)
	out = append(out, pools...)
	return append(out, p), true
}

// RemovePool drops every pool equal to p and reports whether any was removed.
func RemovePool(pools []entity.Pool, p entity.Pool) ([]entity.Pool, bool) {
	out := make([]entity.Pool, 0, len(pools))
	for _, existing := range pools {
		if !SamePool(existing, p) {
			out = append(out, existing)
		}
	}
	return out, len(out) != len(pools)
}

// DedupePools keeps the first occurrence of each pool identity.
func DedupePools(pools []entity.Pool) []entity.Pool {
	if pools == nil {
		return nil
	}
	out := make([]entity.Pool, 0, len(pools))
	for _, p := range pools {
		out, _ = AddPool(out, p)
	}
	return out
}
