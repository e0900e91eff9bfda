package level

// Clamp maps any value into [Min, Max].
func Clamp(l Level) Level {
	if l < Min {
		return Min
	}
	if l > Max {
		return Max
	}
	return l
}

// Increase moves l up by step positions, saturating at Max.
// A negative step moves down instead.
func Increase(l Level, step int) Level {
	return Clamp(Clamp(l) + Level(step))
}

// Decrease moves l down by step positions, saturating at Min.
// A negative step moves up instead.
func Decrease(l Level, step int) Level {
	return Clamp(Clamp(l) - Level(step))
}
