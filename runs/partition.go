package runs

// PartitionMap splits a run table index range into contiguous buckets, one
// per worker, with a maximum imbalance of one run.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int
}

func NewPartitionMap(parallelDegree, maxIndex int) (pm *PartitionMap) {
	if parallelDegree > maxIndex {
		parallelDegree = maxIndex
	}
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: parallelDegree,
		Partitions:     make([][2]int, parallelDegree),
	}
	for n := 0; n < parallelDegree; n++ {
		pm.Partitions[n] = pm.split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) split1D(threadNum int) (bucket [2]int) {
	var (
		npart            = pm.MaxIndex / pm.ParallelDegree
		startAdd, endAdd int
		remainder        = pm.MaxIndex % pm.ParallelDegree
	)
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*npart + startAdd
	bucket[1] = bucket[0] + npart + endAdd
	return
}
