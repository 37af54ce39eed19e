package main

import (
	"unsafe"

	"mpirt/abi"
	"mpirt/rt"
)

// world is the slice of MPI the test needs, bound to the default library.
type world struct {
	init     func() error
	finalize func() error
	rank     func() (int32, error)
	size     func() (int32, error)
	barrier  func() error
	bcastInt func(buf []int32, root int32) error
}

var (
	fnInit      = rt.LazyFunc[func(argc *int32, argv ***byte) int32]("MPI_Init")
	fnFinalize  = rt.LazyFunc[func() int32]("MPI_Finalize")
	fnCommRank  = rt.LazyFunc[func(comm abi.Comm, rank *int32) int32]("MPI_Comm_rank")
	fnCommSize  = rt.LazyFunc[func(comm abi.Comm, size *int32) int32]("MPI_Comm_size")
	fnBarrier   = rt.LazyFunc[func(comm abi.Comm) int32]("MPI_Barrier")
	fnBcast     = rt.LazyFunc[func(buf unsafe.Pointer, count int32, datatype abi.Datatype, root int32, comm abi.Comm) int32]("MPI_Bcast")
	commWorld   = rt.LazyValue[abi.Comm]("MPIABI_COMM_WORLD")
	datatypeInt = rt.LazyValue[abi.Datatype]("MPIABI_INT")
)

func bindWorld() world {
	return world{
		init: func() error {
			return check("MPI_Init", fnInit()(nil, nil))
		},
		finalize: func() error {
			return check("MPI_Finalize", fnFinalize()())
		},
		rank: func() (int32, error) {
			var r int32
			err := check("MPI_Comm_rank", fnCommRank()(commWorld(), &r))
			return r, err
		},
		size: func() (int32, error) {
			var n int32
			err := check("MPI_Comm_size", fnCommSize()(commWorld(), &n))
			return n, err
		},
		barrier: func() error {
			return check("MPI_Barrier", fnBarrier()(commWorld()))
		},
		bcastInt: func(buf []int32, root int32) error {
			count, err := safecastLen(buf)
			if err != nil {
				return err
			}
			return check("MPI_Bcast", fnBcast()(unsafe.Pointer(unsafe.SliceData(buf)), count, datatypeInt(), root, commWorld()))
		},
	}
}
