package dice

// RollWithSource rolls every spec in order using src.
//
// Every spec is validated before the first draw so a failed request never
// consumes randomness. An empty slice rolls nothing and returns a zero
// Result.
func RollWithSource(src Source, specs []Spec) (Result, error) {
	for _, spec := range specs {
		if !spec.Valid() {
			return Result{}, ErrInvalidDiceSpec
		}
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0
	for _, spec := range specs {
		roll := RollSpec(src, spec)
		rolls = append(rolls, roll)
		total += roll.Total
	}

	return Result{
		Rolls: rolls,
		Total: total,
	}, nil
}

// RollSpec rolls a single valid spec and keeps each die result.
// The caller is responsible for validating spec.
func RollSpec(src Source, spec Spec) Roll {
	results := make([]int, spec.Count)
	total := 0
	for i := range results {
		value := rollDie(src, spec.Sides)
		results[i] = value
		total += value
	}
	return Roll{
		Sides:   spec.Sides,
		Results: results,
		Total:   total,
	}
}

// Draw rolls a single spec and returns only its total. An invalid spec draws
// nothing and totals zero.
func Draw(src Source, spec Spec) int {
	if !spec.Valid() {
		return 0
	}
	total := 0
	for i := 0; i < spec.Count; i++ {
		total += rollDie(src, spec.Sides)
	}
	return total
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}
