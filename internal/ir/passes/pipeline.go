package passes

// MaxLevel is the highest optimization level.
const MaxLevel = 2

var registry [MaxLevel + 1][]Pass

// Register adds p to the pipeline of level and of every higher level.
// It is meant to be called from init functions.
func Register(level int, p Pass) {
	if level < 0 || level > MaxLevel {
		panic("passes: bad level")
	}
	registry[level] = append(registry[level], p)
}

// Pipeline returns the passes enabled at level, lower levels first.
// Levels above MaxLevel are clamped; level 0 is normally empty.
func Pipeline(level int) []Pass {
	if level > MaxLevel {
		level = MaxLevel
	}

	var ps []Pass
	for l := 0; l <= level; l++ {
		ps = append(ps, registry[l]...)
	}
	return ps
}
