package ippool

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/henderiw/idxqueue/pkg/idpool"
	"github.com/henderiw/idxqueue/pkg/queue"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPPool interface {
	Get(addr string) (labels.Set, error)
	Claim(addr string, d labels.Set) error
	ClaimDynamic(d labels.Set) (netip.Addr, error)
	ClaimPrefix(prefix string, d labels.Set) error
	Release(addr string) error
	ReleasePrefix(prefix string) error
	Update(addr string, d labels.Set) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)

	GetAll() map[netip.Addr]labels.Set
	GetByLabel(selector labels.Selector) map[netip.Addr]labels.Set

	FreeRanges() []netipx.IPRange
	FreeSet() (*netipx.IPSet, error)
	Range() netipx.IPRange
}

// New returns a pool of the IPv4 addresses in ipRange.
func New(ipRange netipx.IPRange) (IPPool, error) {
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("ip range %s is invalid", ipRange.String())
	}
	if !ipRange.From().Is4() {
		return nil, fmt.Errorf("ip range %s is not an IPv4 range", ipRange.String())
	}
	p, err := idpool.New[uint32](addrToIndex(ipRange.From()), addrToIndex(ipRange.To()), nil, nil)
	if err != nil {
		return nil, err
	}
	return &ipPool{pool: p}, nil
}

type ipPool struct {
	pool idpool.Pool[uint32]
}

// Range returns the addresses the pool manages.
func (r *ipPool) Range() netipx.IPRange {
	b := r.pool.Bounds()
	return netipx.IPRangeFrom(indexToAddr(b.From()), indexToAddr(b.To()))
}

func (r *ipPool) Get(addr string) (labels.Set, error) {
	ip, err := r.validateIP(addr)
	if err != nil {
		return nil, err
	}
	return r.pool.Get(addrToIndex(ip))
}

func (r *ipPool) Claim(addr string, d labels.Set) error {
	ip, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	if err := r.pool.Claim(addrToIndex(ip), d); err != nil {
		return fmt.Errorf("claim failed ip %s: %w", addr, err)
	}
	return nil
}

func (r *ipPool) ClaimDynamic(d labels.Set) (netip.Addr, error) {
	id, err := r.pool.ClaimDynamic(d)
	if err != nil {
		return netip.Addr{}, err
	}
	return indexToAddr(id), nil
}

// ClaimPrefix claims every address of prefix, which must lie within the pool
// and be entirely free.
func (r *ipPool) ClaimPrefix(prefix string, d labels.Set) error {
	rng, err := r.validatePrefix(prefix)
	if err != nil {
		return err
	}
	return r.pool.ClaimRange(addrToIndex(rng.From()), uint64(addrToIndex(rng.To())-addrToIndex(rng.From()))+1, d)
}

func (r *ipPool) Release(addr string) error {
	ip, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.pool.Release(addrToIndex(ip))
}

func (r *ipPool) ReleasePrefix(prefix string) error {
	rng, err := r.validatePrefix(prefix)
	if err != nil {
		return err
	}
	return r.pool.ReleaseRange(addrToIndex(rng.From()), addrToIndex(rng.To()))
}

func (r *ipPool) Update(addr string, d labels.Set) error {
	ip, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	if err := r.pool.Update(addrToIndex(ip), d); err != nil {
		return fmt.Errorf("update failed ip %s: %w", addr, err)
	}
	return nil
}

func (r *ipPool) Count() int {
	return r.pool.Count()
}

func (r *ipPool) Has(addr string) bool {
	ip, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.pool.Has(addrToIndex(ip))
}

func (r *ipPool) IsFree(addr string) bool {
	ip, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.pool.IsFree(addrToIndex(ip))
}

func (r *ipPool) FindFree() (netip.Addr, error) {
	id, err := r.pool.FindFree()
	if err != nil {
		return netip.Addr{}, err
	}
	return indexToAddr(id), nil
}

func (r *ipPool) GetAll() map[netip.Addr]labels.Set {
	entries := map[netip.Addr]labels.Set{}
	for id, d := range r.pool.GetAll() {
		entries[indexToAddr(id)] = d
	}
	return entries
}

func (r *ipPool) GetByLabel(selector labels.Selector) map[netip.Addr]labels.Set {
	entries := map[netip.Addr]labels.Set{}
	for id, d := range r.pool.GetByLabel(selector) {
		entries[indexToAddr(id)] = d
	}
	return entries
}

func (r *ipPool) FreeRanges() []netipx.IPRange {
	free := r.pool.FreeRanges()
	ranges := make([]netipx.IPRange, 0, len(free))
	for _, rng := range free {
		ranges = append(ranges, toIPRange(rng))
	}
	return ranges
}

func (r *ipPool) FreeSet() (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, rng := range r.FreeRanges() {
		b.AddRange(rng)
	}
	return b.IPSet()
}

func (r *ipPool) validateIP(addr string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if ipRange := r.Range(); !ipRange.Contains(ip) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, ipRange.From().String(), ipRange.To().String())
	}
	return ip, nil
}

func (r *ipPool) validatePrefix(prefix string) (netipx.IPRange, error) {
	pfx, err := netip.ParsePrefix(prefix)
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("ip prefix %s is invalid", prefix)
	}
	rng := netipx.RangeOfPrefix(pfx)
	if ipRange := r.Range(); !ipRange.Contains(rng.From()) || !ipRange.Contains(rng.To()) {
		return netipx.IPRange{}, fmt.Errorf("ip prefix %s, does not fit in the range from %s to %s", prefix, ipRange.From().String(), ipRange.To().String())
	}
	return rng, nil
}

func addrToIndex(ip netip.Addr) uint32 {
	b := ip.As4()
	return binary.BigEndian.Uint32(b[:])
}

func indexToAddr(id uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], id)
	return netip.AddrFrom4(b)
}

func toIPRange(rng queue.Interval[uint32]) netipx.IPRange {
	return netipx.IPRangeFrom(indexToAddr(rng.From()), indexToAddr(rng.To()))
}
