package vlanpool

import (
	"fmt"

	"github.com/henderiw/idxqueue/pkg/idpool"
	"github.com/henderiw/idxqueue/pkg/queue"
	"k8s.io/apimachinery/pkg/labels"
)

const (
	UntaggedVLAN uint16 = 0
	DefaultVLAN  uint16 = 1
	ReservedVLAN uint16 = 4095
	MaxVLAN      uint16 = 4095
)

type VLANPool interface {
	idpool.Pool[uint16]
	// ClaimSpec claims the VLANs of a "from-to" range spec, e.g. "100-199".
	ClaimSpec(spec string, d labels.Set) error
	// ReleaseSpec releases the VLANs of a "from-to" range spec.
	ReleaseSpec(spec string) error
}

func reservedEntries() map[uint16]labels.Set {
	return map[uint16]labels.Set{
		UntaggedVLAN: {"type": "untagged", "status": "reserved"},
		DefaultVLAN:  {"type": "untagged", "status": "reserved"},
		ReservedVLAN: {"type": "untagged", "status": "reserved"},
	}
}

func New() (VLANPool, error) {
	p, err := idpool.New[uint16](
		0,
		MaxVLAN,
		reservedEntries(),
		func(id uint16) error {
			switch id {
			case UntaggedVLAN:
				return fmt.Errorf("VLAN %d is the untagged VLAN, cannot be added to the database", id)
			case DefaultVLAN:
				return fmt.Errorf("VLAN %d is the default VLAN, cannot be added to the database", id)
			case ReservedVLAN:
				return fmt.Errorf("VLAN %d is reserved, cannot be added to the database", id)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return &vlanPool{Pool: p}, nil
}

type vlanPool struct {
	idpool.Pool[uint16]
}

func (r *vlanPool) ClaimSpec(spec string, d labels.Set) error {
	rng, err := queue.ParseInterval[uint16](spec)
	if err != nil {
		return err
	}
	return r.ClaimRange(rng.From(), rng.Len(), d)
}

func (r *vlanPool) ReleaseSpec(spec string) error {
	rng, err := queue.ParseInterval[uint16](spec)
	if err != nil {
		return err
	}
	return r.ReleaseRange(rng.From(), rng.To())
}
