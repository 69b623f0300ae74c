package vxlanpool

import (
	"fmt"

	"github.com/henderiw/idxqueue/pkg/idpool"
	"github.com/henderiw/idxqueue/pkg/queue"
	"k8s.io/apimachinery/pkg/labels"
)

const (
	MinVNI uint32 = 1
	MaxVNI uint32 = 1<<24 - 1
)

type VXLANPool interface {
	Get(vni uint32) (labels.Set, error)
	Claim(vni uint32, d labels.Set) error
	ClaimDynamic(d labels.Set) (uint32, error)
	Release(vni uint32) error
	Update(vni uint32, d labels.Set) error

	Count() int
	Has(vni uint32) bool

	IsFree(vni uint32) bool
	FindFree() (uint32, error)

	GetAll() map[uint32]labels.Set
	GetByLabel(selector labels.Selector) map[uint32]labels.Set
	FreeRanges() []queue.Interval[uint32]
}

// New returns a pool of the VNIs in [offset, max].
func New(offset, max uint32) (VXLANPool, error) {
	if offset < MinVNI || max > MaxVNI {
		return nil, fmt.Errorf("vni range %d-%d outside %d-%d", offset, max, MinVNI, MaxVNI)
	}
	p, err := idpool.New[uint32](offset, max, nil, nil)
	if err != nil {
		return nil, err
	}
	return &vxlanPool{pool: p}, nil
}

type vxlanPool struct {
	pool idpool.Pool[uint32]
}

func (r *vxlanPool) Get(vni uint32) (labels.Set, error) {
	return r.pool.Get(vni)
}

func (r *vxlanPool) Claim(vni uint32, d labels.Set) error {
	return r.pool.Claim(vni, d)
}

func (r *vxlanPool) ClaimDynamic(d labels.Set) (uint32, error) {
	return r.pool.ClaimDynamic(d)
}

func (r *vxlanPool) Release(vni uint32) error {
	return r.pool.Release(vni)
}

func (r *vxlanPool) Update(vni uint32, d labels.Set) error {
	return r.pool.Update(vni, d)
}

func (r *vxlanPool) Count() int {
	return r.pool.Count()
}

func (r *vxlanPool) Has(vni uint32) bool {
	return r.pool.Has(vni)
}

func (r *vxlanPool) IsFree(vni uint32) bool {
	return r.pool.IsFree(vni)
}

func (r *vxlanPool) FindFree() (uint32, error) {
	return r.pool.FindFree()
}

func (r *vxlanPool) GetAll() map[uint32]labels.Set {
	return r.pool.GetAll()
}

func (r *vxlanPool) GetByLabel(selector labels.Selector) map[uint32]labels.Set {
	return r.pool.GetByLabel(selector)
}

func (r *vxlanPool) FreeRanges() []queue.Interval[uint32] {
	return r.pool.FreeRanges()
}
