package eval

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/soypat/glgl/math/ms3"
)

// VecPool serves as a pool of Vec and float32 slices for
// evaluators to use as scratch space, avoiding heap allocations
// during distance field traversal. It is passed to evaluators
// via the userData argument of [SDF3.Evaluate]. Not safe for
// concurrent use; concurrent evaluations each get their own pool.
type VecPool struct {
	V3    bufPool[ms3.Vec]
	Float bufPool[float32]
}

// GetVecPool extracts a [VecPool] from the userData argument passed
// through an evaluation. userData may be the pool itself or
// implement the VecPool method.
func GetVecPool(userData any) (*VecPool, error) {
	vp, ok := userData.(*VecPool)
	if ok {
		return vp, nil
	}
	vper, ok := userData.(interface{ VecPool() *VecPool })
	if !ok {
		return nil, fmt.Errorf("userData %T does not provide VecPool", userData)
	}
	vp = vper.VecPool()
	if vp == nil {
		return nil, errors.New("nil VecPool")
	}
	return vp, nil
}

// AssertAllReleased checks all buffers have been returned to the pool.
// Aids in finding buffer leaks after a round of evaluations concludes.
func (vp *VecPool) AssertAllReleased() error {
	err := vp.V3.assertAllReleased()
	if err != nil {
		return err
	}
	return vp.Float.assertAllReleased()
}

type bufPool[T any] struct {
	bufs     [][]T
	acquired []bool
}

// Acquire returns a buffer of at least the requested length, growing the
// pool if no free buffer is available. The buffer must be returned with
// [bufPool.Release] once done with its use.
func (bp *bufPool[T]) Acquire(length int) []T {
	for i, locked := range bp.acquired {
		if !locked && cap(bp.bufs[i]) >= length {
			bp.acquired[i] = true
			return bp.bufs[i][:length]
		}
	}
	newbuf := make([]T, length)
	bp.bufs = append(bp.bufs, newbuf)
	bp.acquired = append(bp.acquired, true)
	return newbuf
}

// Release returns a buffer obtained with [bufPool.Acquire] to the pool.
func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return errors.New("release of zero capacity buffer")
	}
	for i, existing := range bp.bufs {
		if sameUnderlying(existing, buf) {
			if !bp.acquired[i] {
				return errors.New("release of unacquired buffer")
			}
			bp.acquired[i] = false
			return nil
		}
	}
	return errors.New("release of buffer not belonging to pool")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, locked := range bp.acquired {
		if locked {
			return errors.New("VecPool buffer leak detected")
		}
	}
	return nil
}

func sameUnderlying[T any](a, b []T) bool {
	return unsafe.Pointer(unsafe.SliceData(a[:cap(a)])) == unsafe.Pointer(unsafe.SliceData(b[:cap(b)]))
}
