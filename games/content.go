package games

// Content is the secret material of a round.
type Content struct {
	Word  string
	Word2 string
	Hint  string
	Hint2 string
}

// SelectContent draws the round's word(s) from pool. Two-word rounds draw the
// second entry independently, so both words may be the same.
func SelectContent(pool []WordEntry, normal GameMode, hintEnabled bool, rng Source) (Content, error) {
	if len(pool) == 0 {
		return Content{}, ErrEmptyWordPool
	}

	primary := pick(rng, pool)

	var c Content
	if normal == ModeRolesSwitched {
		c.Word, c.Hint = primary.Hint, primary.Word
	} else {
		c.Word, c.Hint = primary.Word, primary.Hint
	}

	if normal == ModeTwoWords {
		secondary := pick(rng, pool)
		c.Word2, c.Hint2 = secondary.Word, secondary.Hint
	}

	if !hintEnabled {
		c.Hint, c.Hint2 = "", ""
	}

	return c, nil
}
