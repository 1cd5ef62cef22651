package suggestions

// emojiRanges are the blocks the emoji rule recognizes: emoticons,
// miscellaneous symbols and pictographs, transport and map symbols, and
// regional indicators. Newer pictograph blocks and modifiers are not included.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
}

func ContainsEmoji(text string) bool {
	for _, r := range text {
		for _, rng := range emojiRanges {
			if r >= rng[0] && r <= rng[1] {
				return true
			}
		}
	}
	return false
}
