package core

// StarInstance matches the WGSL instance layout in starfield.wgsl
// struct StarInstance { pos: vec3<f32>, size: f32 }
type StarInstance struct {
	Pos  [3]float32
	Size float32
}

// PackInstances interleaves the simulator buffers into instance records,
// reusing dst when it has room.
func PackInstances(dst []StarInstance, positions, sizes []float32) []StarInstance {
	n := len(sizes)
	if cap(dst) < n {
		dst = make([]StarInstance, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		i3 := i * 3
		dst[i] = StarInstance{
			Pos:  [3]float32{positions[i3], positions[i3+1], positions[i3+2]},
			Size: sizes[i],
		}
	}
	return dst
}

// UpdatePositions rewrites only the positions of already packed instances.
// Sizes never change after creation so a tick only needs this.
func UpdatePositions(dst []StarInstance, positions []float32) {
	for i := range dst {
		i3 := i * 3
		dst[i].Pos = [3]float32{positions[i3], positions[i3+1], positions[i3+2]}
	}
}
