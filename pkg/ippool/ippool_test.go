package ippool

import (
	"net/netip"
	"testing"

	"github.com/tj/assert"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

func TestNew(t *testing.T) {
	_, err := New(netipx.MustParseIPRange("2001:db8::1-2001:db8::10"))
	assert.Error(t, err)
	_, err = New(netipx.IPRange{})
	assert.Error(t, err)
	r, err := New(netipx.MustParseIPRange("10.0.0.0-10.0.0.255"))
	assert.NoError(t, err)
	assert.Equal(t, netipx.MustParseIPRange("10.0.0.0-10.0.0.255"), r.Range())
}

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		ipRange           string
		newSuccessEntries map[string]labels.Set
		newFailedEntries  map[string]labels.Set
		expectedEntries   int
		expectedFree      string
	}{
		"Normal": {
			ipRange: "10.0.0.10-10.0.0.20",
			newSuccessEntries: map[string]labels.Set{
				"10.0.0.10": {},
				"10.0.0.11": {},
			},
			newFailedEntries: map[string]labels.Set{
				"10.0.0.21": {},
				"10.0.0.9":  {},
				"foo":       {},
			},
			expectedEntries: 2,
			expectedFree:    "10.0.0.12",
		},
		"Hole": {
			ipRange: "10.0.0.10-10.0.0.20",
			newSuccessEntries: map[string]labels.Set{
				"10.0.0.11": {},
			},
			expectedEntries: 1,
			expectedFree:    "10.0.0.10",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ipRange, err := netipx.ParseIPRange(tc.ipRange)
			assert.NoError(t, err)

			r, err := New(ipRange)
			assert.NoError(t, err)

			for addr, d := range tc.newSuccessEntries {
				err := r.Claim(addr, d)
				assert.NoError(t, err)
			}
			for addr, d := range tc.newFailedEntries {
				err := r.Claim(addr, d)
				assert.Error(t, err)
			}
			for addr := range tc.newSuccessEntries {
				if !r.Has(addr) {
					t.Errorf("%s expecting success claim entry: %s\n", name, addr)
				}
			}
			for addr := range tc.newFailedEntries {
				if r.Has(addr) {
					t.Errorf("%s no expecting failed claim entry: %s\n", name, addr)
				}
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, len(r.GetAll()))
			}

			a, err := r.FindFree()
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedFree, a.String())
		})
	}
}

func TestClaimDynamicAndRelease(t *testing.T) {
	r, err := New(netipx.MustParseIPRange("192.168.0.254-192.168.1.1"))
	assert.NoError(t, err)

	for _, expected := range []string{"192.168.0.254", "192.168.0.255", "192.168.1.0", "192.168.1.1"} {
		a, err := r.ClaimDynamic(labels.Set{"app": "web"})
		assert.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr(expected), a)
	}
	_, err = r.ClaimDynamic(nil)
	assert.Error(t, err)
	assert.Empty(t, r.FreeRanges())

	assert.NoError(t, r.Release("192.168.0.255"))
	assert.True(t, r.IsFree("192.168.0.255"))
	assert.Equal(t, []netipx.IPRange{netipx.MustParseIPRange("192.168.0.255-192.168.0.255")}, r.FreeRanges())

	selector, err := labels.Parse("app=web")
	assert.NoError(t, err)
	assert.Len(t, r.GetByLabel(selector), 3)
}

func TestClaimPrefix(t *testing.T) {
	r, err := New(netipx.MustParseIPRange("10.0.0.0-10.0.1.255"))
	assert.NoError(t, err)

	assert.NoError(t, r.ClaimPrefix("10.0.0.64/26", labels.Set{"subnet": "a"}))
	assert.Equal(t, 64, r.Count())
	assert.Error(t, r.ClaimPrefix("10.0.0.96/27", nil))
	assert.Error(t, r.ClaimPrefix("10.0.2.0/24", nil))
	assert.Error(t, r.ClaimPrefix("bad", nil))

	assert.Equal(t, []netipx.IPRange{
		netipx.MustParseIPRange("10.0.0.0-10.0.0.63"),
		netipx.MustParseIPRange("10.0.0.128-10.0.1.255"),
	}, r.FreeRanges())

	set, err := r.FreeSet()
	assert.NoError(t, err)
	assert.True(t, set.Contains(netip.MustParseAddr("10.0.0.63")))
	assert.False(t, set.Contains(netip.MustParseAddr("10.0.0.64")))
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/26"),
		netip.MustParsePrefix("10.0.0.128/25"),
		netip.MustParsePrefix("10.0.1.0/24"),
	}, set.Prefixes())

	assert.NoError(t, r.Update("10.0.0.70", labels.Set{"subnet": "b"}))
	assert.Error(t, r.Update("10.0.0.10", nil))
	d, err := r.Get("10.0.0.70")
	assert.NoError(t, err)
	assert.Equal(t, "b", d.Get("subnet"))

	assert.NoError(t, r.ReleasePrefix("10.0.0.64/26"))
	assert.Equal(t, 0, r.Count())
	assert.Len(t, r.FreeRanges(), 1)
}
